//go:build ebiten

package app

import (
	"image/color"
	"time"

	"mad-traffic/internal/core"
	"mad-traffic/internal/render"
	"mad-traffic/internal/scenario"
	"mad-traffic/internal/traffic"
	"mad-traffic/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"
)

const minScreenHeight = 360

var background = color.RGBA{R: 8, G: 8, B: 10, A: 255}

type blockEditor interface {
	CellAt(x, y int) (traffic.CellRef, bool)
	ToggleBlocked(ref traffic.CellRef, info traffic.BlockInfo) (bool, error)
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	palette []color.RGBA
	log     *logrus.Entry

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64
	savePath string
}

// Option customizes a Game.
type Option func(*Game)

// WithHUD shows the parameter panel with the given width.
func WithHUD(width int) Option {
	return func(g *Game) { g.hudWidth = width }
}

// WithSavePath sets the file written when F5 is pressed.
func WithSavePath(path string) Option {
	return func(g *Game) { g.savePath = path }
}

// WithLogger routes the game's log output through entry.
func WithLogger(entry *logrus.Entry) Option {
	return func(g *Game) {
		if entry != nil {
			g.log = entry
		}
	}
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, scale int, seed int64, opts ...Option) *Game {
	if scale <= 0 {
		scale = 1
	}
	g := &Game{
		sim:   sim,
		scale: scale,
		seed:  seed,
		log:   logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(g)
	}
	size := sim.Size()
	g.painter = render.NewGridPainter(size.W, size.H)
	g.overlay = ui.NewOverlay(sim, scale)
	if g.hudWidth > 0 {
		g.hud = ui.NewHUD(sim, g.hudWidth)
	}
	if p, ok := sim.(core.PaletteProvider); ok {
		g.palette = p.Palette()
	}
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
	g.log.WithField("seed", seed).Info("simulation reset")
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.save()
	}
	g.handleMouse()

	if g.overlay != nil {
		g.overlay.Update()
	}
	if g.hud != nil {
		g.hud.Update(g.sim.Size().W * g.scale)
	}

	if (!g.paused) || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

// handleMouse selects the street under a left click and toggles an
// obstruction under a right click.
func (g *Game) handleMouse() {
	left := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	right := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	if !left && !right {
		return
	}
	editor, ok := g.sim.(blockEditor)
	if !ok {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < 0 || my < 0 {
		return
	}
	ref, ok := editor.CellAt(mx/g.scale, my/g.scale)
	if !ok {
		if left && mx < g.sim.Size().W*g.scale {
			g.overlay.Select("")
		}
		return
	}
	if left {
		g.overlay.Select(ref.Street)
		return
	}
	blocked, err := editor.ToggleBlocked(ref, traffic.BlockInfo{Label: "editor"})
	if err != nil {
		g.log.WithError(err).Warn("toggle blocked cell")
		return
	}
	g.log.WithFields(logrus.Fields{"cell": traffic.BlockedKey(ref), "blocked": blocked}).Debug("blocked cell toggled")
}

func (g *Game) save() {
	w, ok := g.sim.(*traffic.World)
	if !ok || g.savePath == "" {
		g.log.Warn("nothing to save: no -save path or sim is not a traffic world")
		return
	}
	if err := scenario.WriteFile(g.savePath, scenario.Save(w, w.Name())); err != nil {
		g.log.WithError(err).Error("save scenario")
		return
	}
	g.log.WithField("path", g.savePath).Info("scenario saved")
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
	if g.hud != nil {
		g.hud.Draw(screen, g.sim.Size().W*g.scale)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenSize()
}

// ScreenSize reports the window size needed for the grid and the HUD.
func (g *Game) ScreenSize() (int, int) {
	s := g.sim.Size()
	h := s.H * g.scale
	if g.hud != nil && h < minScreenHeight {
		h = minScreenHeight
	}
	return s.W*g.scale + g.hudWidth, h
}
