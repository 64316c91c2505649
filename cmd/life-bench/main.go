package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/profile"

	"github.com/Mstrdav/cellular/internal/lattice"
	"github.com/Mstrdav/cellular/internal/sims/life"
)

type scenario struct {
	p    float64
	seed int64
}

func (s scenario) String() string {
	return fmt.Sprintf("p=%.2f seed=%d", s.p, s.seed)
}

type scenarioResult struct {
	scenario
	initial    int
	final      int
	peak       int
	stableAt   int
	extinctAt  int
	elapsed    time.Duration
	generation uint64
}

func main() {
	steps := flag.Int("steps", 200, "generations to simulate per soup")
	size := flag.Int("size", 128, "soup side length in cells")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	seeds := flag.Int("seeds", 4, "soups per density")
	densities := flag.String("p", "0.1,0.2,0.3,0.4,0.5", "comma-separated alive probabilities")
	rule := flag.String("rule", lattice.Conway.String(), "B/S rule")
	prof := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	flag.Parse()

	switch *prof {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		log.Fatalf("unknown profile %q (want cpu or mem)", *prof)
	}

	r, err := lattice.ParseRule(*rule)
	if err != nil {
		log.Fatal(err)
	}
	ps, err := parseDensities(*densities)
	if err != nil {
		log.Fatal(err)
	}

	base := life.DefaultConfig()
	base.Rule = r
	base.Scale = 10
	base.Width = *size * 10
	base.Height = *size * 10
	base.Margin = 0

	var sets []scenario
	for _, p := range ps {
		for s := 0; s < *seeds; s++ {
			sets = append(sets, scenario{p: p, seed: int64(1337 + s)})
		}
	}

	fmt.Printf("Running %d soups (%d workers, %d steps, %dx%d, %s)\n",
		len(sets), *workers, *steps, *size, *size, r)

	jobs := make(chan scenario)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				results <- runScenario(base, sc, *steps)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, sc := range sets {
			jobs <- sc
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	var cellSteps float64
	for res := range results {
		all = append(all, res)
		cellSteps += float64(*size) * float64(*size) * float64(res.generation)
	}
	elapsed := time.Since(start)

	sort.Slice(all, func(i, j int) bool {
		if all[i].p != all[j].p {
			return all[i].p < all[j].p
		}
		return all[i].seed < all[j].seed
	})

	fmt.Printf("\n%-22s %8s %8s %8s %8s %8s %10s\n", "soup", "initial", "final", "peak", "stable", "extinct", "time")
	for _, res := range all {
		fmt.Printf("%-22s %8d %8d %8d %8s %8s %10s\n", res.scenario, res.initial, res.final, res.peak,
			generationOrDash(res.stableAt), generationOrDash(res.extinctAt), res.elapsed.Round(time.Microsecond))
	}
	fmt.Printf("\nTotal %s, %.2f Mcell-steps/s\n", elapsed.Round(time.Millisecond), cellSteps/elapsed.Seconds()/1e6)
}

// runScenario fills a soup with density sc.p and steps it. stableAt is the
// first generation whose population equals the previous one; extinctAt is
// the first generation with no live cells.
func runScenario(base life.Config, sc scenario, steps int) scenarioResult {
	cfg := base
	cfg.Init = lattice.RandomPolicy(sc.p)
	cfg.Extend = lattice.EmptyPolicy()
	cfg.Seed = sc.seed

	start := time.Now()
	sim := life.New(cfg)
	res := scenarioResult{scenario: sc, initial: sim.Population(), stableAt: -1, extinctAt: -1}
	res.peak = res.initial

	prev := res.initial
	for gen := 1; gen <= steps; gen++ {
		sim.Step()
		pop := sim.Population()
		res.peak = max(res.peak, pop)
		if res.stableAt < 0 && pop == prev {
			res.stableAt = gen
		}
		if pop == 0 {
			res.extinctAt = gen
			break
		}
		prev = pop
	}
	res.final = sim.Population()
	res.generation = sim.Generation()
	res.elapsed = time.Since(start)
	return res
}

func parseDensities(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		p, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("density %q: %w", field, err)
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no densities in %q", s)
	}
	return out, nil
}

func generationOrDash(gen int) string {
	if gen < 0 {
		return "-"
	}
	return strconv.Itoa(gen)
}
