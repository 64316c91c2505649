// Package life runs a Life-like automaton on an unbounded lattice seen
// through a movable viewport.
package life

import (
	"sync"
	"time"

	"github.com/Mstrdav/cellular/internal/core"
	"github.com/Mstrdav/cellular/internal/lattice"
	"github.com/Mstrdav/cellular/internal/viewport"
)

// Life owns one lattice and the viewport over it. Every viewport mutation is
// followed by materializing the new visible region with the Extend policy.
//
// All methods are safe for concurrent use: writers are serialized and readers
// never observe a partially committed generation.
type Life struct {
	mu sync.RWMutex

	name   string
	cfg    Config
	store  *lattice.Store
	filler *lattice.Filler
	view   *viewport.Viewport
	anim   *core.Animation
	rng    *core.RNG

	generation uint64
}

// New returns a Life simulation with its visible region filled by cfg.Init.
func New(cfg Config) *Life {
	store := lattice.NewStore()
	rng := core.NewRNG(cfg.Seed)
	view := viewport.New(cfg.Width, cfg.Height)
	if cfg.Scale != 0 {
		view.SetScale(cfg.Scale)
	}
	l := &Life{
		name:   "life",
		cfg:    cfg,
		store:  store,
		filler: lattice.NewFiller(store, rng.Source()),
		view:   view,
		anim:   core.NewAnimation(cfg.TPS),
		rng:    rng,
	}
	l.filler.Ensure(view.VisibleRegion(), cfg.Init)
	return l
}

// Name returns the simulation identifier.
func (l *Life) Name() string { return l.name }

// Config returns the active configuration.
func (l *Life) Config() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// Reset empties the lattice, reseeds the random source and fills the visible
// region with the Init policy.
func (l *Life) Reset(seed int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.Seed = seed
	l.rng = core.NewRNG(seed)
	l.filler.Reseed(l.rng.Source())
	l.store.Clear()
	l.generation = 0
	l.filler.Ensure(l.view.VisibleRegion(), l.cfg.Init)
}

// Clear discards every cell. Nothing is regenerated until the viewport moves
// or a step materializes territory again.
func (l *Life) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.store.Clear()
	l.generation = 0
}

// Step advances the visible region, plus the configured margin, by one
// generation.
func (l *Life) Step() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stepLocked()
}

// Tick is called once per host frame and steps when the animation is
// RUNNING and due. It reports whether a generation was computed.
func (l *Life) Tick(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.anim.Due(now) {
		return false
	}
	l.stepLocked()
	return true
}

func (l *Life) stepLocked() {
	region := l.view.VisibleRegion().Expand(l.cfg.Margin)
	if region.Empty() {
		return
	}
	l.filler.Ensure(region, l.cfg.Extend)
	var next *lattice.Patch
	if l.cfg.Workers > 1 {
		next = lattice.StepParallel(l.store, region, l.cfg.Rule, l.cfg.Workers)
	} else {
		next = lattice.Step(l.store, region, l.cfg.Rule)
	}
	l.store.Apply(next)
	l.generation++
}

// StartAnimation switches to RUNNING; a no-op when already running.
func (l *Life) StartAnimation() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.anim.Start()
}

// StopAnimation switches to STOPPED; a no-op when already stopped.
func (l *Life) StopAnimation() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.anim.Stop()
}

// ToggleAnimation flips between RUNNING and STOPPED and returns the new state.
func (l *Life) ToggleAnimation() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.anim.Toggle()
}

// Running reports whether the animation is RUNNING.
func (l *Life) Running() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.anim.Running()
}

// Pan shifts the viewport center by (dx, dy) lattice units.
func (l *Life) Pan(dx, dy float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.view.Pan(dx, dy)
	l.extendLocked()
}

// Zoom adjusts the cell size by delta pixels, clamped.
func (l *Life) Zoom(delta float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.view.Zoom(delta)
	l.extendLocked()
}

// Resize updates the surface size in pixels.
func (l *Life) Resize(w, h int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cw, ch := l.view.Size(); cw == w && ch == h {
		return
	}
	l.view.Resize(w, h)
	l.cfg.Width, l.cfg.Height = l.view.Size()
	l.extendLocked()
}

func (l *Life) extendLocked() {
	l.filler.Ensure(l.view.VisibleRegion(), l.cfg.Extend)
}

// ToggleCell flips c between Alive and Dead. Ungenerated cells become Alive.
func (l *Life) ToggleCell(c lattice.Coord) lattice.State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.toggleLocked(c)
}

// ToggleAt flips the cell under the surface pixel (px, py) and returns it.
func (l *Life) ToggleAt(px, py float64) lattice.Coord {
	l.mu.Lock()
	defer l.mu.Unlock()
	c := l.view.ScreenToCell(px, py)
	l.toggleLocked(c)
	return c
}

func (l *Life) toggleLocked(c lattice.Coord) lattice.State {
	next := l.store.State(c).Flip()
	l.store.Set(c, next)
	return next
}

// Set writes c directly, for seeding patterns.
func (l *Life) Set(c lattice.Coord, st lattice.State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.store.Set(c, st)
}

// Get returns the state at c and whether it has been generated.
func (l *Life) Get(c lattice.Coord) (lattice.State, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Get(c)
}

// VisibleRegion returns the coordinates currently on screen.
func (l *Life) VisibleRegion() lattice.Region {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.view.VisibleRegion()
}

// Viewport returns a copy of the current viewport.
func (l *Life) Viewport() viewport.Viewport {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return *l.view
}

// Capture copies the visible region into dst, reshaping it as needed, and
// returns the viewport the copy was taken with.
func (l *Life) Capture(dst *lattice.Patch) viewport.Viewport {
	return l.Snapshot(dst).View
}

// Snapshot describes one committed generation as seen by a reader.
type Snapshot struct {
	View       viewport.Viewport
	Generation uint64
	Population int
	Running    bool
}

// Snapshot copies the visible region into dst and reports the counters of
// the same generation, all under one read lock.
func (l *Life) Snapshot(dst *lattice.Patch) Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	dst.Reshape(l.view.VisibleRegion())
	l.store.CaptureInto(dst)
	return Snapshot{
		View:       *l.view,
		Generation: l.generation,
		Population: l.store.Population(),
		Running:    l.anim.Running(),
	}
}

// Generation returns the number of steps since the last Reset or Clear.
func (l *Life) Generation() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.generation
}

// Population returns the number of Alive cells in the whole store.
func (l *Life) Population() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Population()
}

// Stored returns the number of generated cells.
func (l *Life) Stored() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Len()
}

func init() {
	core.Register("life", func(cfg map[string]string) core.Sim {
		return New(FromMap(cfg))
	})
	core.Register("highlife", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		if _, ok := cfg["rule"]; !ok {
			c.Rule = lattice.HighLife
		}
		l := New(c)
		l.name = "highlife"
		return l
	})
}
