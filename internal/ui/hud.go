//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"strings"

	"mad-traffic/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var (
	hudBackground = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	hudHeading    = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	hudText       = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	hudDim        = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	buttonOn      = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	buttonOff     = color.RGBA{R: 32, G: 34, B: 40, A: 255}
	buttonTextOff = color.RGBA{R: 120, G: 120, B: 130, A: 255}
)

const (
	panelPadding  = 12
	titleBaseline = panelPadding + 18
	clockBaseline = titleBaseline + 16
	controlsTop   = clockBaseline + 14
	rowHeight     = 36
	rowBaseline   = 24
	buttonSize    = 24
	buttonGap     = 6
	readoutGap    = 20
	readoutLine   = 16
	readoutIndent = 8
)

// HUD is the panel right of the street view: title and clock, one row with
// -/+ buttons per adjustable parameter, then every other value as a readout.
type HUD struct {
	sim      core.Sim
	width    int
	title    string
	panel    *ebiten.Image
	pixel    *ebiten.Image
	snapshot core.ParameterSnapshot
	controls []control
	offsetX  int
}

// NewHUD returns a panel of the given width for sim.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0), controls: controlsFor(sim)}
	h.title = "Controls"
	if name := sim.Name(); name != "" {
		h.title = strings.ToUpper(name[:1]) + name[1:]
	}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)
	return h
}

// Update reads the sim's parameters and applies button clicks. panelOffsetX is
// the screen column where the panel starts.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.offsetX = panelOffsetX
	provider, ok := h.sim.(core.ParameterProvider)
	if !ok {
		return
	}
	h.snapshot = provider.Parameters()
	for i := range h.controls {
		h.controls[i].sync(h.snapshot)
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	for i := range h.controls {
		minus, plus := h.buttons(i)
		switch p := image.Pt(mx-h.offsetX, my); {
		case p.In(minus):
			h.controls[i].adjust(h.sim, -1)
			return
		case p.In(plus):
			h.controls[i].adjust(h.sim, 1)
			return
		}
	}
}

// Draw paints the panel at column offsetX, as tall as screen.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int) {
	if h == nil || h.width == 0 {
		return
	}
	height := screen.Bounds().Dy()
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(hudBackground)
	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, titleBaseline, hudHeading)
	text.Draw(h.panel, h.clock(), face, panelPadding, clockBaseline, hudDim)

	for i, c := range h.controls {
		minus, plus := h.buttons(i)
		y := controlsTop + i*rowHeight + rowBaseline
		text.Draw(h.panel, c.spec.Label, face, panelPadding, y, hudText)
		value := c.label()
		col := hudText
		if !c.known {
			col = hudDim
		}
		text.Draw(h.panel, value, face, minus.Min.X-buttonGap-text.BoundString(face, value).Dx(), y, col)
		h.drawButton(minus, "-", c.enabled(h.sim, -1))
		h.drawButton(plus, "+", c.enabled(h.sim, 1))
	}
	h.drawReadout(height)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) clock() string {
	hour, okHour := h.snapshot.Lookup("hour")
	tick, okTick := h.snapshot.Lookup("tick")
	if !okHour || !okTick {
		return ""
	}
	return "hour " + hour.Value + "  tick " + tick.Value
}

// buttons returns the minus and plus rectangles of control row i in panel
// coordinates.
func (h *HUD) buttons(i int) (minus, plus image.Rectangle) {
	top := controlsTop + i*rowHeight + (rowHeight-buttonSize)/2
	right := h.width - panelPadding
	plus = image.Rect(right-buttonSize, top, right, top+buttonSize)
	minus = plus.Sub(image.Pt(buttonSize+buttonGap, 0))
	return minus, plus
}

// drawReadout lists the parameters without a control, grouped as the sim
// reports them, until the panel runs out of room.
func (h *HUD) drawReadout(height int) {
	controlled := make(map[string]bool, len(h.controls)+2)
	for _, c := range h.controls {
		controlled[c.spec.Key] = true
	}
	controlled["hour"], controlled["tick"] = true, true

	face := basicfont.Face7x13
	y := controlsTop + len(h.controls)*rowHeight + readoutGap
	for _, group := range h.snapshot.Groups {
		if y+readoutLine > height {
			return
		}
		text.Draw(h.panel, group.Name, face, panelPadding, y, hudHeading)
		y += readoutLine
		for _, param := range group.Params {
			if controlled[param.Key] {
				continue
			}
			if y+readoutLine > height {
				return
			}
			text.Draw(h.panel, param.Label, face, panelPadding+readoutIndent, y, hudDim)
			w := text.BoundString(face, param.Value).Dx()
			text.Draw(h.panel, param.Value, face, h.width-panelPadding-w, y, hudText)
			y += readoutLine
		}
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg, fg := buttonOn, hudText
	if !enabled {
		bg, fg = buttonOff, buttonTextOff
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()+b.Dy())/2
	text.Draw(h.panel, label, face, x, y, fg)
}
