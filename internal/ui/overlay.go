//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"mad-traffic/internal/core"
	"mad-traffic/internal/traffic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type networkView interface {
	Street(id string) *traffic.Street
	Parkings() []*traffic.Parking
	BlockedCells() map[string]traffic.BlockInfo
	DisplayPosition(ref traffic.CellRef) (x, y int, ok bool)
}

var (
	entryColor    = color.RGBA{R: 80, G: 230, B: 120, A: 230}
	exitColor     = color.RGBA{R: 80, G: 200, B: 255, A: 230}
	blockedColor  = color.RGBA{R: 20, G: 20, B: 20, A: 220}
	selectColor   = color.RGBA{R: 255, G: 255, B: 255, A: 160}
	barBackground = color.RGBA{R: 40, G: 40, B: 48, A: 200}
	barFill       = color.RGBA{R: 240, G: 180, B: 60, A: 230}
)

// Overlay draws editor visuals on top of the street grid: parking bindings,
// blocked-cell markers, parking fill bars and the selected street.
type Overlay struct {
	sim   core.Sim
	scale int

	showBindings  bool
	showBlocked   bool
	showOccupancy bool
	selected      string

	pixel *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale, showBindings: true, showBlocked: true, showOccupancy: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Select highlights the street with the given id. An empty id clears the
// selection.
func (o *Overlay) Select(id string) { o.selected = id }

// Update toggles the overlay layers.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showBindings = !o.showBindings
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showBlocked = !o.showBlocked
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showOccupancy = !o.showOccupancy
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	view, ok := o.sim.(networkView)
	if !ok {
		return
	}
	scale := float64(o.scale)
	if scale <= 0 {
		scale = 1
	}
	if o.selected != "" {
		o.drawSelection(screen, view, scale)
	}
	if o.showBlocked {
		for key := range view.BlockedCells() {
			ref, err := traffic.ParseBlockedKey(key)
			if err != nil {
				continue
			}
			if x, y, ok := view.DisplayPosition(ref); ok {
				o.drawCross(screen, x, y, scale)
			}
		}
	}
	for _, p := range view.Parkings() {
		if o.showBindings {
			for _, b := range p.Bindings() {
				x, y, ok := view.DisplayPosition(b.CellRef)
				if !ok {
					continue
				}
				col := entryColor
				if b.Role == traffic.BindingExit {
					col = exitColor
				}
				o.drawFrame(screen, float64(x)*scale, float64(y)*scale, scale, scale, col)
			}
		}
		if o.showOccupancy {
			o.drawOccupancy(screen, view, p, scale)
		}
	}
}

func (o *Overlay) drawSelection(screen *ebiten.Image, view networkView, scale float64) {
	s := view.Street(o.selected)
	if s == nil {
		return
	}
	x, y, ok := view.DisplayPosition(traffic.CellRef{Street: s.ID()})
	if !ok {
		return
	}
	o.drawFrame(screen, float64(x)*scale-1, float64(y)*scale-1,
		float64(s.Length())*scale+2, float64(s.Lanes())*scale+2, selectColor)
}

func (o *Overlay) drawCross(screen *ebiten.Image, x, y int, scale float64) {
	x0 := float64(x) * scale
	y0 := float64(y) * scale
	thickness := math.Max(1, scale/4)
	o.drawLine(screen, x0, y0, x0+scale, y0+scale, thickness, blockedColor)
	o.drawLine(screen, x0+scale, y0, x0, y0+scale, thickness, blockedColor)
}

// drawOccupancy paints a fill bar along the top edge of the parking's first
// binding cell.
func (o *Overlay) drawOccupancy(screen *ebiten.Image, view networkView, p *traffic.Parking, scale float64) {
	bindings := p.Bindings()
	if len(bindings) == 0 || p.Capacity() == 0 {
		return
	}
	x, y, ok := view.DisplayPosition(bindings[0].CellRef)
	if !ok {
		return
	}
	width := scale * 4
	height := math.Max(2, scale/3)
	left := float64(x) * scale
	top := float64(y)*scale - height - 1
	if top < 0 {
		top = 0
	}
	fill := clamp01(float64(p.Occupancy()) / float64(p.Capacity()))
	o.drawRect(screen, left, top, width, height, barBackground)
	o.drawRect(screen, left, top, width*fill, height, barFill)
}

func (o *Overlay) drawFrame(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	o.drawRect(screen, x, y, w, 1, col)
	o.drawRect(screen, x, y+h-1, w, 1, col)
	o.drawRect(screen, x, y, 1, h, col)
	o.drawRect(screen, x+w-1, y, 1, h, col)
}

func (o *Overlay) drawRect(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	if o.pixel == nil || w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
