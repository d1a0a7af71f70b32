package render

import "image/color"

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black. Values past
// the end of the palette use its last entry.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		for i := range cells {
			base := i * 4
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
		}
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// grayPalette is used for sims that do not provide their own palette: 0 is
// black and every other value white.
var grayPalette = []color.RGBA{
	{A: 255},
	{R: 255, G: 255, B: 255, A: 255},
}

// PaletteFor returns palette when it is non-empty and the two-tone fallback
// otherwise.
func PaletteFor(palette []color.RGBA) []color.RGBA {
	if len(palette) == 0 {
		return grayPalette
	}
	return palette
}
