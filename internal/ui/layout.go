// Package ui draws the parameter HUD and the lattice overlay.
package ui

import (
	"math"
	"strconv"

	"github.com/Mstrdav/cellular/internal/core"
	"github.com/Mstrdav/cellular/internal/lattice"
	"github.com/Mstrdav/cellular/internal/viewport"
)

// gridMinScale is the smallest cell size at which grid lines are drawn.
const gridMinScale = 12.0

// GridLines returns the screen x of every vertical cell boundary and the
// screen y of every horizontal one across the visible region. It returns
// nothing when cells are too small for lines to be legible.
func GridLines(vp viewport.Viewport) (xs, ys []float64) {
	if vp.Scale() < gridMinScale {
		return nil, nil
	}
	r := vp.VisibleRegion()
	if r.Empty() {
		return nil, nil
	}
	xs = make([]float64, 0, r.Width()+1)
	for i := r.MinI; i <= r.MaxI; i++ {
		x, _ := vp.CellToScreen(lattice.Coord{I: i, J: r.MinJ})
		xs = append(xs, x)
	}
	ys = make([]float64, 0, r.Height()+1)
	for j := r.MinJ; j <= r.MaxJ; j++ {
		_, y := vp.CellToScreen(lattice.Coord{I: r.MinI, J: j})
		ys = append(ys, y)
	}
	return xs, ys
}

// adjust computes the value one click of the -/+ button would produce. It
// reports false when the control is already at its bound.
func adjust(ctrl core.ParameterControl, current float64, direction int) (float64, bool) {
	if direction == 0 {
		return current, false
	}
	step := ctrl.Step
	switch ctrl.Type {
	case core.ParamTypeInt:
		step = math.Round(step)
		if step <= 0 {
			step = 1
		}
	case core.ParamTypeFloat:
		if step <= 0 {
			step = 0.05
		}
	default:
		return current, false
	}
	target := ctrl.Clamp(current + float64(direction)*step)
	if math.Abs(target-current) < 1e-9 {
		return current, false
	}
	return target, true
}

// formatValue renders v with a precision derived from the control step.
func formatValue(ctrl core.ParameterControl, v float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}
