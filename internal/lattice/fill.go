package lattice

import "math/rand/v2"

// Filler materializes regions of a store, generating only coordinates that
// have never been seen.
type Filler struct {
	store *Store
	rng   *rand.Rand
}

// NewFiller binds a filler to store. rng feeds the Random policy and may be
// nil when Random is never used.
func NewFiller(store *Store, rng *rand.Rand) *Filler {
	return &Filler{store: store, rng: rng}
}

// Reseed swaps the random source used by the Random policy.
func (f *Filler) Reseed(rng *rand.Rand) { f.rng = rng }

// Ensure gives every coordinate of r an explicit entry, generating missing
// ones with policy. Existing entries are never touched. It returns the number
// of cells created.
func (f *Filler) Ensure(r Region, policy Policy) int {
	created := 0
	r.Each(func(c Coord) {
		if f.store.Contains(c) {
			return
		}
		f.store.Set(c, policy.Generate(c, f.rng))
		created++
	})
	return created
}
