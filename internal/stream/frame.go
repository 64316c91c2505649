// Package stream publishes the visible lattice over HTTP and websocket and
// accepts viewport and animation commands from remote viewers.
package stream

import (
	"strings"

	"github.com/Mstrdav/cellular/internal/lattice"
	"github.com/Mstrdav/cellular/internal/sims/life"
)

const (
	aliveGlyph = '#'
	deadGlyph  = '.'
)

// Frame is one published view of the simulation.
type Frame struct {
	Generation uint64         `json:"generation"`
	Population int            `json:"population"`
	Running    bool           `json:"running"`
	Scale      float64        `json:"scale"`
	CenterX    float64        `json:"cx"`
	CenterY    float64        `json:"cy"`
	Region     lattice.Region `json:"region"`
	// Rows holds one string per lattice row, '#' for Alive and '.' otherwise.
	Rows []string `json:"rows"`
}

// Capture builds a frame of the visible region, reusing patch as scratch.
func Capture(sim *life.Life, patch *lattice.Patch) Frame {
	snap := sim.Snapshot(patch)
	cx, cy := snap.View.Center()
	f := Frame{
		Generation: snap.Generation,
		Population: snap.Population,
		Running:    snap.Running,
		Scale:      snap.View.Scale(),
		CenterX:    cx,
		CenterY:    cy,
		Region:     patch.Region,
		Rows:       make([]string, patch.H),
	}
	cells := patch.Cells()
	var b strings.Builder
	for y := 0; y < patch.H; y++ {
		b.Reset()
		b.Grow(patch.W)
		for _, st := range cells[y*patch.W : (y+1)*patch.W] {
			if st == lattice.Alive {
				b.WriteByte(aliveGlyph)
			} else {
				b.WriteByte(deadGlyph)
			}
		}
		f.Rows[y] = b.String()
	}
	return f
}

// Alive reports whether the frame shows c as Alive.
func (f Frame) Alive(c lattice.Coord) bool {
	if !f.Region.Contains(c) {
		return false
	}
	return f.Rows[c.J-f.Region.MinJ][c.I-f.Region.MinI] == aliveGlyph
}
