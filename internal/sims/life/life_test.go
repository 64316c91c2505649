package life

import (
	"maps"
	"sync"
	"testing"
	"time"

	"github.com/Mstrdav/cellular/internal/core"
	"github.com/Mstrdav/cellular/internal/lattice"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 100
	cfg.Height = 100
	cfg.Scale = 10
	return cfg
}

func stored(l *Life, r lattice.Region) map[lattice.Coord]lattice.State {
	out := map[lattice.Coord]lattice.State{}
	r.Each(func(c lattice.Coord) {
		if st, ok := l.Get(c); ok {
			out[c] = st
		}
	})
	return out
}

func alive(l *Life, r lattice.Region) map[lattice.Coord]bool {
	out := map[lattice.Coord]bool{}
	r.Each(func(c lattice.Coord) {
		if st, _ := l.Get(c); st == lattice.Alive {
			out[c] = true
		}
	})
	return out
}

func TestNewMaterializesVisibleRegion(t *testing.T) {
	l := New(testConfig())
	r := l.VisibleRegion()
	if r != lattice.Rect(-5, -5, 5, 5) {
		t.Fatalf("visible region = %v", r)
	}
	if l.Stored() != r.Area() {
		t.Fatalf("stored %d cells, want %d", l.Stored(), r.Area())
	}
	if l.Population() != 0 {
		t.Fatalf("empty init policy produced %d alive cells", l.Population())
	}
}

func TestBlinkerThroughSimulation(t *testing.T) {
	l := New(testConfig())
	row := []lattice.Coord{lattice.C(-1, 0), lattice.C(0, 0), lattice.C(1, 0)}
	for _, c := range row {
		l.ToggleCell(c)
	}
	r := l.VisibleRegion()
	before := alive(l, r)

	l.Step()
	want := map[lattice.Coord]bool{lattice.C(0, -1): true, lattice.C(0, 0): true, lattice.C(0, 1): true}
	if got := alive(l, r); !maps.Equal(got, want) {
		t.Fatalf("after one step got %v", got)
	}
	l.Step()
	if got := alive(l, r); !maps.Equal(got, before) {
		t.Fatalf("after two steps got %v", got)
	}
	if l.Generation() != 2 {
		t.Fatalf("generation = %d, want 2", l.Generation())
	}
}

func TestNonDestructivePan(t *testing.T) {
	cfg := testConfig()
	cfg.Init = lattice.RandomPolicy(0.4)
	cfg.Extend = lattice.RandomPolicy(0.4)
	l := New(cfg)
	home := l.VisibleRegion()
	before := stored(l, home)

	l.Pan(250, -120)
	if l.VisibleRegion() == home {
		t.Fatal("pan did not move the viewport")
	}
	if got := stored(l, l.VisibleRegion()); len(got) != l.VisibleRegion().Area() {
		t.Fatal("pan must materialize the new visible region")
	}
	l.Pan(-250, 120)

	if got := stored(l, home); !maps.Equal(got, before) {
		t.Fatal("panning back must restore the exact original cells")
	}
}

func TestZoomAndResizeExtendCoverage(t *testing.T) {
	l := New(testConfig())
	l.Zoom(-1000)
	r := l.VisibleRegion()
	if got := len(stored(l, r)); got != r.Area() {
		t.Fatalf("zoom out left %d of %d cells ungenerated", r.Area()-got, r.Area())
	}
	l.Resize(400, 300)
	r = l.VisibleRegion()
	if got := len(stored(l, r)); got != r.Area() {
		t.Fatalf("resize left %d of %d cells ungenerated", r.Area()-got, r.Area())
	}
	if vp := l.Viewport(); vp.Scale() != 6 {
		t.Fatalf("scale = %v, want clamped minimum", vp.Scale())
	}
	n := l.Stored()
	l.Zoom(1000)
	if l.Stored() != n {
		t.Fatal("zooming in must never shrink the store")
	}
}

func TestToggleCell(t *testing.T) {
	l := New(testConfig())
	far := lattice.C(1000, 1000)
	if _, ok := l.Get(far); ok {
		t.Fatal("far cell must start ungenerated")
	}
	if st := l.ToggleCell(far); st != lattice.Alive {
		t.Fatal("ungenerated cell must toggle to alive")
	}
	if st := l.ToggleCell(far); st != lattice.Dead {
		t.Fatal("second toggle must return to dead")
	}
	c := l.ToggleAt(50, 50)
	if c != lattice.C(0, 0) {
		t.Fatalf("surface center maps to %v", c)
	}
	if st, _ := l.Get(c); st != lattice.Alive {
		t.Fatal("ToggleAt must flip the cell under the pointer")
	}
}

func TestClearAndReset(t *testing.T) {
	cfg := testConfig()
	cfg.Init = lattice.RandomPolicy(0.5)
	l := New(cfg)
	l.Step()
	l.Clear()
	if l.Stored() != 0 || l.Generation() != 0 {
		t.Fatalf("clear left %d cells at generation %d", l.Stored(), l.Generation())
	}

	l.Reset(7)
	first := stored(l, l.VisibleRegion())
	l.Reset(7)
	if !maps.Equal(first, stored(l, l.VisibleRegion())) {
		t.Fatal("reset with the same seed must be deterministic")
	}
	l.Reset(8)
	if maps.Equal(first, stored(l, l.VisibleRegion())) {
		t.Fatal("different seeds should produce different soups")
	}
}

func TestTickFollowsAnimationState(t *testing.T) {
	l := New(testConfig())
	now := time.Unix(10, 0)
	if l.Tick(now) {
		t.Fatal("stopped simulation must not step")
	}
	if !l.StartAnimation() || l.StartAnimation() {
		t.Fatal("start must only change state once")
	}
	for i := 0; i < 3; i++ {
		if !l.Tick(now.Add(time.Duration(i) * time.Millisecond)) {
			t.Fatal("running simulation with tps 0 must step every frame")
		}
	}
	if l.Generation() != 3 {
		t.Fatalf("generation = %d, want 3", l.Generation())
	}
	if !l.StopAnimation() || l.StopAnimation() {
		t.Fatal("stop must only change state once")
	}
	if l.Tick(now.Add(time.Second)) {
		t.Fatal("stopped simulation must not step")
	}
}

func TestStepMarginMaterializes(t *testing.T) {
	cfg := testConfig()
	cfg.Margin = 2
	l := New(cfg)
	l.Step()
	r := l.VisibleRegion().Expand(2)
	if got := len(stored(l, r)); got != r.Area() {
		t.Fatalf("margin ring not materialized: %d of %d", got, r.Area())
	}
}

func TestParallelWorkersMatchSequential(t *testing.T) {
	cfg := testConfig()
	cfg.Init = lattice.RandomPolicy(0.35)
	seq := New(cfg)
	cfg.Workers = 4
	par := New(cfg)
	for i := 0; i < 5; i++ {
		seq.Step()
		par.Step()
	}
	r := seq.VisibleRegion().Expand(1)
	if !maps.Equal(stored(seq, r), stored(par, r)) {
		t.Fatal("parallel stepping diverged")
	}
}

func TestConcurrentReadersDuringSteps(t *testing.T) {
	cfg := testConfig()
	cfg.Init = lattice.RandomPolicy(0.3)
	l := New(cfg)
	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			patch := lattice.NewPatch(lattice.Region{})
			for {
				select {
				case <-stop:
					return
				default:
					l.Capture(patch)
					_ = l.Parameters()
				}
			}
		}()
	}
	for i := 0; i < 20; i++ {
		l.Step()
		l.Pan(0.5, 0)
	}
	close(stop)
	wg.Wait()
}

func TestSnapshotMatchesOneGeneration(t *testing.T) {
	l := New(testConfig())
	// A beacon alternates between 8 and 6 alive cells and stays on screen.
	for _, c := range []lattice.Coord{
		lattice.C(0, 0), lattice.C(1, 0), lattice.C(0, 1), lattice.C(1, 1),
		lattice.C(2, 2), lattice.C(3, 2), lattice.C(2, 3), lattice.C(3, 3),
	} {
		l.Set(c, lattice.Alive)
	}
	want := func(gen uint64) int {
		if gen%2 == 0 {
			return 8
		}
		return 6
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			l.Step()
		}
	}()

	patch := lattice.NewPatch(lattice.Region{})
	for {
		snap := l.Snapshot(patch)
		if snap.Population != want(snap.Generation) {
			t.Fatalf("generation %d reported population %d", snap.Generation, snap.Population)
		}
		if got := patch.Population(); got != snap.Population {
			t.Fatalf("generation %d: patch has %d alive, counters say %d", snap.Generation, got, snap.Population)
		}
		select {
		case <-done:
			if snap := l.Snapshot(patch); snap.Generation != 200 {
				t.Fatalf("final generation %d", snap.Generation)
			}
			return
		default:
		}
	}
}

func TestToggleAtDuringPans(t *testing.T) {
	l := New(testConfig())
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			l.Pan(1, 0)
			l.Pan(-1, 0)
		}
	}()

	flips := map[lattice.Coord]int{}
	for i := 0; i < 200; i++ {
		c := l.ToggleAt(50, 50)
		if c != lattice.C(0, 0) && c != lattice.C(1, 0) {
			t.Fatalf("pointer mapped to %v", c)
		}
		flips[c]++
	}
	<-done

	for c, n := range flips {
		st, _ := l.Get(c)
		if (n%2 == 1) != (st == lattice.Alive) {
			t.Fatalf("%v toggled %d times but is %v", c, n, st)
		}
	}
}

func TestParameterSetters(t *testing.T) {
	l := New(testConfig())
	if !l.SetIntParameter("tps", 30) || l.Parameters().Groups[0].Params[5].Value != "30" {
		t.Fatal("tps must be adjustable")
	}
	if !l.SetFloatParameter("extend_p", 0.2) {
		t.Fatal("extend_p must be adjustable")
	}
	if got := l.Config().Extend; got != lattice.RandomPolicy(0.2) {
		t.Fatalf("extend policy = %v", got)
	}
	if !l.SetFloatParameter("scale", 500) {
		t.Fatal("scale must be adjustable")
	}
	if p, _ := l.Parameters().Lookup("scale"); p.Value != "100" {
		t.Fatalf("scale must clamp, got %s", p.Value)
	}
	if l.SetIntParameter("nope", 1) || l.SetFloatParameter("nope", 1) {
		t.Fatal("unknown keys must be rejected")
	}
}

func TestRegisteredFactories(t *testing.T) {
	for _, name := range []string{"life", "highlife"} {
		factory, ok := core.Sims()[name]
		if !ok {
			t.Fatalf("%s not registered", name)
		}
		sim := factory(map[string]string{"w": "50", "h": "50"})
		if sim.Name() != name {
			t.Fatalf("factory %s built %s", name, sim.Name())
		}
	}
	hl := core.Sims()["highlife"](nil).(*Life)
	if hl.Config().Rule != lattice.HighLife {
		t.Fatalf("highlife rule = %v", hl.Config().Rule)
	}
}

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"w": "320", "h": "bogus", "rule": "B36/S23", "init": "random:0.1",
		"extend": "full", "margin": "3", "tps": "12", "seed": "-5",
	})
	if cfg.Width != 320 || cfg.Height != DefaultConfig().Height {
		t.Fatalf("size = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Rule != lattice.HighLife || cfg.Init != lattice.RandomPolicy(0.1) || cfg.Extend != lattice.FullPolicy() {
		t.Fatalf("rule/policies not parsed: %+v", cfg)
	}
	if cfg.Margin != 3 || cfg.TPS != 12 || cfg.Seed != -5 {
		t.Fatalf("ints not parsed: %+v", cfg)
	}
	if back := FromMap(cfg.ToMap()); back != cfg {
		t.Fatalf("ToMap/FromMap mismatch: %+v vs %+v", back, cfg)
	}
}
