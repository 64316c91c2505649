// Package viewport tracks the window through which the lattice is observed.
package viewport

import (
	"math"

	"github.com/Mstrdav/cellular/internal/lattice"
)

const (
	// MinScale is the smallest on-screen cell size in pixels.
	MinScale = 6.0
	// MaxScale is the largest on-screen cell size in pixels.
	MaxScale = 100.0
	// DefaultScale is the cell size used by New.
	DefaultScale = 12.5
)

// Viewport holds a floating center in lattice units, the pixel size of one
// cell and the pixel dimensions of the host surface. It performs no I/O and
// never touches a store; callers materialize VisibleRegion after mutating it.
type Viewport struct {
	cx, cy float64
	scale  float64
	w, h   int
}

// New returns a viewport centered on the origin at DefaultScale.
func New(w, h int) *Viewport {
	v := &Viewport{scale: DefaultScale}
	v.Resize(w, h)
	return v
}

// Center returns the lattice coordinate shown in the middle of the surface.
func (v *Viewport) Center() (float64, float64) { return v.cx, v.cy }

// SetCenter moves the center to (cx, cy).
func (v *Viewport) SetCenter(cx, cy float64) { v.cx, v.cy = cx, cy }

// Scale returns the pixel size of one cell.
func (v *Viewport) Scale() float64 { return v.scale }

// SetScale sets the cell size, clamped to [MinScale, MaxScale].
func (v *Viewport) SetScale(s float64) { v.scale = clampScale(s) }

// Size returns the surface size in pixels.
func (v *Viewport) Size() (int, int) { return v.w, v.h }

// Pan shifts the center by (dx, dy) lattice units.
func (v *Viewport) Pan(dx, dy float64) {
	v.cx += dx
	v.cy += dy
}

// Zoom adds delta to the scale, then clamps it.
func (v *Viewport) Zoom(delta float64) {
	v.scale = clampScale(v.scale + delta)
}

// Resize updates the surface size. Negative sizes are treated as zero.
func (v *Viewport) Resize(w, h int) {
	v.w = max(w, 0)
	v.h = max(h, 0)
}

// VisibleRegion returns every cell at least partly on screen:
// [floor(cx - W/scale/2), cx + W/scale/2) x [floor(cy - H/scale/2), cy + H/scale/2).
func (v *Viewport) VisibleRegion() lattice.Region {
	halfW := float64(v.w) / v.scale / 2
	halfH := float64(v.h) / v.scale / 2
	return lattice.Region{
		MinI: int(math.Floor(v.cx - halfW)),
		MinJ: int(math.Floor(v.cy - halfH)),
		MaxI: int(math.Ceil(v.cx + halfW)),
		MaxJ: int(math.Ceil(v.cy + halfH)),
	}
}

// ScreenToCell maps a pixel position on the surface to the cell under it.
func (v *Viewport) ScreenToCell(px, py float64) lattice.Coord {
	return lattice.Coord{
		I: int(math.Floor((px-float64(v.w)/2)/v.scale + v.cx)),
		J: int(math.Floor((py-float64(v.h)/2)/v.scale + v.cy)),
	}
}

// CellToScreen returns the pixel position of the top-left corner of c.
func (v *Viewport) CellToScreen(c lattice.Coord) (float64, float64) {
	return (float64(c.I)-v.cx)*v.scale + float64(v.w)/2,
		(float64(c.J)-v.cy)*v.scale + float64(v.h)/2
}

func clampScale(s float64) float64 {
	if math.IsNaN(s) || s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
