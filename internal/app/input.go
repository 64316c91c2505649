// Package app adapts a lattice simulation to a window: it converts pointer,
// wheel and keyboard input into viewport and cell operations.
package app

import "math"

const (
	// dragThreshold is how far, in pixels, the pointer must travel while held
	// before a press becomes a drag instead of a click.
	dragThreshold = 3.0
	// wheelNotchPixels converts one wheel notch into pixels of cell size
	// before dividing by the current scale.
	wheelNotchPixels = 100.0
)

// Gesture is what one frame of pointer input amounts to.
type Gesture struct {
	// PanX and PanY are the pointer movement in pixels while dragging.
	PanX, PanY float64
	// Click is set on release of a press that never became a drag; X and Y
	// hold the press position.
	Click bool
	X, Y  float64
}

// Pointer turns per-frame cursor samples into click and drag gestures.
type Pointer struct {
	down, dragging bool
	startX, startY float64
	lastX, lastY   float64
}

// Sample feeds one frame of cursor position and button state.
func (p *Pointer) Sample(x, y float64, pressed bool) Gesture {
	switch {
	case pressed && !p.down:
		p.down, p.dragging = true, false
		p.startX, p.startY = x, y
		p.lastX, p.lastY = x, y
		return Gesture{}
	case pressed:
		if !p.dragging {
			if math.Hypot(x-p.startX, y-p.startY) < dragThreshold {
				return Gesture{}
			}
			p.dragging = true
		}
		g := Gesture{PanX: x - p.lastX, PanY: y - p.lastY}
		p.lastX, p.lastY = x, y
		return g
	case p.down:
		p.down = false
		if p.dragging {
			return Gesture{}
		}
		return Gesture{Click: true, X: p.startX, Y: p.startY}
	}
	return Gesture{}
}

// Dragging reports whether the current press has become a drag.
func (p *Pointer) Dragging() bool { return p.down && p.dragging }

// PanDelta converts a pointer drag in pixels into the lattice offset that keeps
// the grabbed cell under the pointer.
func PanDelta(dxPixels, dyPixels, scale float64) (float64, float64) {
	if scale <= 0 {
		return 0, 0
	}
	return -dxPixels / scale, -dyPixels / scale
}

// WheelZoomDelta converts a vertical wheel offset into a cell size change.
// ebiten reports scrolling down as negative wheelY; scrolling down zooms in
// and the change shrinks as cells grow.
func WheelZoomDelta(wheelY, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	return -wheelY * wheelNotchPixels / scale
}
