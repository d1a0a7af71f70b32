package core

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order. Each
// row is an independent lane; there is no wrapping between rows or columns.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Row returns the slice backing row y. Writes through it mutate the grid.
func (g *ByteGrid) Row(y int) []uint8 {
	return g.data[y*g.W : (y+1)*g.W]
}

// In reports whether (x, y) lies inside the grid.
func (g *ByteGrid) In(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// At returns the value at (x, y).
func (g *ByteGrid) At(x, y int) uint8 { return g.data[y*g.W+x] }

// Set stores v at (x, y).
func (g *ByteGrid) Set(x, y int, v uint8) { g.data[y*g.W+x] = v }
