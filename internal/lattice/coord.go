// Package lattice implements a sparse, unbounded two-state cellular automaton
// plane: the cell store, lazy region materialization and the generation step.
package lattice

import "fmt"

// Coord identifies one lattice cell. I grows to the right, J grows downwards.
type Coord struct {
	I, J int
}

// C is shorthand for Coord{I: i, J: j}.
func C(i, j int) Coord { return Coord{I: i, J: j} }

// Add returns the coordinate offset by (di, dj).
func (c Coord) Add(di, dj int) Coord { return Coord{I: c.I + di, J: c.J + dj} }

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.I, c.J) }

// State is the binary value of a cell.
type State uint8

const (
	Dead State = iota
	Alive
)

// Flip returns the opposite state.
func (s State) Flip() State {
	if s == Alive {
		return Dead
	}
	return Alive
}

func (s State) String() string {
	if s == Alive {
		return "alive"
	}
	return "dead"
}

// Region is a half-open axis-aligned rectangle [MinI, MaxI) x [MinJ, MaxJ).
type Region struct {
	MinI, MinJ int
	MaxI, MaxJ int
}

// Rect builds a region from inclusive minimum and exclusive maximum corners.
func Rect(minI, minJ, maxI, maxJ int) Region {
	return Region{MinI: minI, MinJ: minJ, MaxI: maxI, MaxJ: maxJ}
}

// Width is the number of columns covered.
func (r Region) Width() int {
	if r.MaxI <= r.MinI {
		return 0
	}
	return r.MaxI - r.MinI
}

// Height is the number of rows covered.
func (r Region) Height() int {
	if r.MaxJ <= r.MinJ {
		return 0
	}
	return r.MaxJ - r.MinJ
}

// Area returns Width*Height.
func (r Region) Area() int { return r.Width() * r.Height() }

// Empty reports whether the region holds no coordinates.
func (r Region) Empty() bool { return r.Width() == 0 || r.Height() == 0 }

// Contains reports whether c lies inside the region.
func (r Region) Contains(c Coord) bool {
	return c.I >= r.MinI && c.I < r.MaxI && c.J >= r.MinJ && c.J < r.MaxJ
}

// Expand grows the region by margin cells on every side. Negative margins
// shrink it.
func (r Region) Expand(margin int) Region {
	return Region{
		MinI: r.MinI - margin,
		MinJ: r.MinJ - margin,
		MaxI: r.MaxI + margin,
		MaxJ: r.MaxJ + margin,
	}
}

// Each visits every coordinate column by column, top to bottom within a
// column.
func (r Region) Each(fn func(c Coord)) {
	for i := r.MinI; i < r.MaxI; i++ {
		for j := r.MinJ; j < r.MaxJ; j++ {
			fn(Coord{I: i, J: j})
		}
	}
}

func (r Region) String() string {
	return fmt.Sprintf("[%d,%d)x[%d,%d)", r.MinI, r.MaxI, r.MinJ, r.MaxJ)
}
