package lattice

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Step computes the next generation of every cell in r without mutating the
// store. Neighbors are read from the store as they are; ungenerated ones
// count as Dead, and cells on the border of r are not given any extra
// context. Callers that need exact borders must ensure r.Expand(1) first.
//
// The result is committed with Store.Apply.
func Step(s *Store, r Region, rule Rule) *Patch {
	next := NewPatch(r)
	if r.Empty() {
		return next
	}
	cur := captureHalo(s, r)
	computeRows(cur, next, rule, 0, r.Height())
	return next
}

// StepParallel is Step with the compute pass split into row bands across
// workers goroutines. workers <= 0 uses GOMAXPROCS.
func StepParallel(s *Store, r Region, rule Rule, workers int) *Patch {
	next := NewPatch(r)
	if r.Empty() {
		return next
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	rows := r.Height()
	if workers > rows {
		workers = rows
	}
	cur := captureHalo(s, r)
	if workers <= 1 {
		computeRows(cur, next, rule, 0, rows)
		return next
	}

	band := (rows + workers - 1) / workers
	var g errgroup.Group
	for y0 := 0; y0 < rows; y0 += band {
		y0, y1 := y0, min(y0+band, rows)
		g.Go(func() error {
			computeRows(cur, next, rule, y0, y1)
			return nil
		})
	}
	_ = g.Wait()
	return next
}

// captureHalo snapshots r plus a one-cell ring so every neighbor lookup in
// the sweep hits the snapshot rather than the live store.
func captureHalo(s *Store, r Region) *Patch {
	return s.Capture(r.Expand(1))
}

// computeRows fills rows [y0, y1) of next. cur is the halo snapshot, one
// cell larger than next on every side.
func computeRows(cur, next *Patch, rule Rule, y0, y1 int) {
	w, cw := next.W, cur.W
	src := cur.Cells()
	dst := next.Cells()
	for y := y0; y < y1; y++ {
		up := y * cw
		mid := up + cw
		down := mid + cw
		for x := 0; x < w; x++ {
			n := int(src[up+x]) + int(src[up+x+1]) + int(src[up+x+2]) +
				int(src[mid+x]) + int(src[mid+x+2]) +
				int(src[down+x]) + int(src[down+x+1]) + int(src[down+x+2])
			dst[y*w+x] = rule.Next(src[mid+x+1], n)
		}
	}
}
