package lattice

// Patch is a dense row-major copy of the states inside one region. The step
// engine returns its next generation as a Patch, and renderers read the
// visible region through one.
type Patch struct {
	Region Region
	W, H   int
	data   []State
}

// NewPatch allocates a zeroed (all Dead) patch covering r.
func NewPatch(r Region) *Patch {
	w, h := r.Width(), r.Height()
	return &Patch{Region: r, W: w, H: h, data: make([]State, w*h)}
}

// Cells exposes the backing slice in row-major order.
func (p *Patch) Cells() []State { return p.data }

// Index returns the slice index of c. c must lie inside the region.
func (p *Patch) Index(c Coord) int {
	return (c.J-p.Region.MinJ)*p.W + (c.I - p.Region.MinI)
}

// At returns the state at c and whether c is covered by the patch.
func (p *Patch) At(c Coord) (State, bool) {
	if !p.Region.Contains(c) {
		return Dead, false
	}
	return p.data[p.Index(c)], true
}

// Population counts Alive cells in the patch.
func (p *Patch) Population() int {
	n := 0
	for _, st := range p.data {
		if st == Alive {
			n++
		}
	}
	return n
}

// Reshape points the patch at r, growing the buffer only when needed.
func (p *Patch) Reshape(r Region) {
	w, h := r.Width(), r.Height()
	p.Region, p.W, p.H = r, w, h
	if cap(p.data) < w*h {
		p.data = make([]State, w*h)
		return
	}
	p.data = p.data[:w*h]
}

// Clear fills the patch with Dead.
func (p *Patch) Clear() {
	for i := range p.data {
		p.data[i] = Dead
	}
}
