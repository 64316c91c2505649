// Package core holds the contracts shared by simulations and their hosts:
// the simulation registry, seeding, animation state and tunable parameters.
package core

import "sort"

// Sim defines the minimal contract a lattice simulation must implement.
type Sim interface {
	Name() string
	// Reset clears all state and regenerates the visible region from seed.
	Reset(seed int64)
	// Step advances one generation regardless of the animation state.
	Step()
	Generation() uint64
	Population() int
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) Sim

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// Names lists registered simulations in lexical order.
func Names() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
