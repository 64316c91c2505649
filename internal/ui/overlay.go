//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Mstrdav/cellular/internal/lattice"
	"github.com/Mstrdav/cellular/internal/viewport"
)

// Overlay draws grid lines and highlights the cell under the cursor.
type Overlay struct {
	showGrid bool
	hover    lattice.Coord
	hasHover bool
	pixel    *ebiten.Image
}

// NewOverlay constructs an overlay with the grid enabled.
func NewOverlay() *Overlay {
	o := &Overlay{showGrid: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// ToggleGrid shows or hides cell boundaries.
func (o *Overlay) ToggleGrid() { o.showGrid = !o.showGrid }

// Hover marks c as the cell under the cursor.
func (o *Overlay) Hover(c lattice.Coord, ok bool) {
	o.hover, o.hasHover = c, ok
}

// Draw renders the overlay for vp.
func (o *Overlay) Draw(screen *ebiten.Image, vp viewport.Viewport) {
	w, h := vp.Size()
	if o.showGrid {
		xs, ys := GridLines(vp)
		for _, x := range xs {
			o.fillRect(screen, x, 0, 1, float64(h), gridColor)
		}
		for _, y := range ys {
			o.fillRect(screen, 0, y, float64(w), 1, gridColor)
		}
	}
	if o.hasHover {
		x, y := vp.CellToScreen(o.hover)
		s := vp.Scale()
		o.fillRect(screen, x, y, s, 1, hoverColor)
		o.fillRect(screen, x, y+s-1, s, 1, hoverColor)
		o.fillRect(screen, x, y, 1, s, hoverColor)
		o.fillRect(screen, x+s-1, y, 1, s, hoverColor)
	}
}

func (o *Overlay) fillRect(dst *ebiten.Image, x, y, w, h float64, c color.Color) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	dst.DrawImage(o.pixel, op)
}

var (
	gridColor  = color.RGBA{R: 40, G: 40, B: 48, A: 255}
	hoverColor = color.RGBA{R: 255, G: 200, B: 60, A: 255}
)
