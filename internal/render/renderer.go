//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Mstrdav/cellular/internal/lattice"
	"github.com/Mstrdav/cellular/internal/viewport"
)

// GridPainter uploads a patch of cells into one image, one pixel per cell,
// and draws it scaled and offset by the viewport.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte

	on, off rgba
	bg      color.Color
}

// NewGridPainter returns a painter drawing Alive cells in on and Dead cells
// in off.
func NewGridPainter(on, off color.Color) *GridPainter {
	return &GridPainter{on: toRGBA(on), off: toRGBA(off), bg: off}
}

// Draw renders patch onto dst as seen through vp.
func (gp *GridPainter) Draw(dst *ebiten.Image, patch *lattice.Patch, vp viewport.Viewport) {
	dst.Fill(gp.bg)
	if patch.W == 0 || patch.H == 0 {
		return
	}
	gp.ensure(patch.W, patch.H)
	fillBinaryRGBA(gp.buf, patch.Cells(), gp.on, gp.off)
	gp.img.WritePixels(gp.buf)

	x, y := vp.CellToScreen(lattice.Coord{I: patch.Region.MinI, J: patch.Region.MinJ})
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(vp.Scale(), vp.Scale())
	op.GeoM.Translate(x, y)
	dst.DrawImage(gp.img, op)
}

func (gp *GridPainter) ensure(w, h int) {
	if gp.img != nil && gp.w == w && gp.h == h {
		return
	}
	if gp.img != nil {
		gp.img.Dispose()
	}
	gp.w, gp.h = w, h
	gp.img = ebiten.NewImage(w, h)
	gp.buf = make([]byte, 4*w*h)
}

// Size returns the dimensions of the underlying image in cells.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
