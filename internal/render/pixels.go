package render

import (
	"image/color"

	"github.com/Mstrdav/cellular/internal/lattice"
)

// rgba is a color pre-split into 8-bit channels.
type rgba [4]byte

func toRGBA(c color.Color) rgba {
	r, g, b, a := c.RGBA()
	return rgba{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

// fillBinaryRGBA converts cell states into RGBA pixels in buf, one pixel per
// cell. buf must hold 4*len(cells) bytes.
func fillBinaryRGBA(buf []byte, cells []lattice.State, on, off rgba) {
	for i, st := range cells {
		px := off
		if st == lattice.Alive {
			px = on
		}
		copy(buf[i*4:i*4+4], px[:])
	}
}
