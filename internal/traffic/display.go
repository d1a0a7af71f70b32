package traffic

import (
	"image/color"

	"mad-traffic/internal/core"
)

// displayVoid fills display cells that belong to no lane.
const displayVoid = cellStates

var trafficPalette = []color.RGBA{
	Empty:       {R: 48, G: 48, B: 54, A: 255},
	1:           {R: 230, G: 70, B: 60, A: 255},
	2:           {R: 70, G: 140, B: 230, A: 255},
	3:           {R: 240, G: 200, B: 60, A: 255},
	4:           {R: 90, G: 190, B: 110, A: 255},
	5:           {R: 235, G: 235, B: 240, A: 255},
	6:           {R: 170, G: 100, B: 210, A: 255},
	Blocked:     {R: 255, G: 140, B: 0, A: 255},
	displayVoid: {R: 0, G: 0, B: 0, A: 255},
}

// displayLayout stacks every lane of every street as one row, with a blank
// row between streets.
type displayLayout struct {
	w, h     int
	rowStart []int
}

func computeLayout(streets []*Street) displayLayout {
	l := displayLayout{w: 1, rowStart: make([]int, len(streets))}
	row := 0
	for i, s := range streets {
		if i > 0 {
			row++
		}
		l.rowStart[i] = row
		row += s.Lanes()
		if s.Length() > l.w {
			l.w = s.Length()
		}
	}
	l.h = row
	if l.h == 0 {
		l.h = 1
	}
	return l
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "traffic" }

// Size reports the display grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.layout.w, H: w.layout.h} }

// Cells exposes the display buffer. It is rewritten after every tick and edit.
func (w *World) Cells() []uint8 { return w.display }

// Palette exposes the color palette used for rendering display cells.
func (w *World) Palette() []color.RGBA { return trafficPalette }

// DisplayPosition returns the display grid coordinates of ref.
func (w *World) DisplayPosition(ref CellRef) (x, y int, ok bool) {
	for i, s := range w.streets {
		if s.ID() != ref.Street {
			continue
		}
		if !s.Contains(ref.Lane, ref.Index) {
			return 0, 0, false
		}
		return ref.Index, w.layout.rowStart[i] + ref.Lane, true
	}
	return 0, 0, false
}

// CellAt maps display grid coordinates back to a street cell.
func (w *World) CellAt(x, y int) (CellRef, bool) {
	for i, s := range w.streets {
		lane := y - w.layout.rowStart[i]
		if lane < 0 || lane >= s.Lanes() {
			continue
		}
		if x < 0 || x >= s.Length() {
			return CellRef{}, false
		}
		return CellRef{Street: s.ID(), Lane: lane, Index: x}, true
	}
	return CellRef{}, false
}

func (w *World) rebuildDisplay() {
	w.layout = computeLayout(w.streets)
	w.display = make([]uint8, w.layout.w*w.layout.h)
	w.refreshDisplay()
}

func (w *World) refreshDisplay() {
	for i := range w.display {
		w.display[i] = displayVoid
	}
	for i, s := range w.streets {
		for l := 0; l < s.Lanes(); l++ {
			base := (w.layout.rowStart[i] + l) * w.layout.w
			copy(w.display[base:base+s.Length()], s.cur.Row(l))
		}
	}
}
