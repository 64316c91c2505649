package lattice

// Store is the sparse mapping from coordinates to cell states. A coordinate
// that was never written is "not yet generated", which is distinct from an
// explicit Dead entry.
type Store struct {
	cells map[Coord]State
	alive int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{cells: make(map[Coord]State)}
}

// Get returns the state at c and whether the cell has been generated.
func (s *Store) Get(c Coord) (State, bool) {
	st, ok := s.cells[c]
	return st, ok
}

// State returns the state at c, reading ungenerated cells as Dead.
func (s *Store) State(c Coord) State { return s.cells[c] }

// Contains reports whether c has an explicit entry.
func (s *Store) Contains(c Coord) bool {
	_, ok := s.cells[c]
	return ok
}

// Set writes the state at c.
func (s *Store) Set(c Coord, st State) {
	prev, ok := s.cells[c]
	if ok && prev == Alive {
		s.alive--
	}
	if st == Alive {
		s.alive++
	}
	s.cells[c] = st
}

// Clear discards every entry; all cells revert to not yet generated.
func (s *Store) Clear() {
	clear(s.cells)
	s.alive = 0
}

// Len is the number of generated cells.
func (s *Store) Len() int { return len(s.cells) }

// Population is the number of Alive cells.
func (s *Store) Population() int { return s.alive }

// Capture copies the states of r into a dense patch. Ungenerated cells read as
// Dead.
func (s *Store) Capture(r Region) *Patch {
	p := NewPatch(r)
	s.CaptureInto(p)
	return p
}

// CaptureInto refreshes p from the store, reusing its buffer.
func (s *Store) CaptureInto(p *Patch) {
	r := p.Region
	for j := r.MinJ; j < r.MaxJ; j++ {
		row := (j - r.MinJ) * p.W
		for i := r.MinI; i < r.MaxI; i++ {
			p.data[row+i-r.MinI] = s.cells[Coord{I: i, J: j}]
		}
	}
}

// Apply writes every cell of the patch into the store.
func (s *Store) Apply(p *Patch) {
	r := p.Region
	for j := r.MinJ; j < r.MaxJ; j++ {
		row := (j - r.MinJ) * p.W
		for i := r.MinI; i < r.MaxI; i++ {
			s.Set(Coord{I: i, J: j}, p.data[row+i-r.MinI])
		}
	}
}
