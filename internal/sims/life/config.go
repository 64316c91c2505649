package life

import (
	"strconv"

	"github.com/Mstrdav/cellular/internal/lattice"
	"github.com/Mstrdav/cellular/internal/viewport"
)

// Config controls the Life simulation.
type Config struct {
	// Width and Height are the initial surface size in pixels.
	Width  int
	Height int
	Scale  float64

	Rule lattice.Rule
	// Init fills the visible region on Reset; Extend fills territory revealed
	// by pan, zoom and resize and the step margin.
	Init   lattice.Policy
	Extend lattice.Policy
	// Margin is the number of extra cells stepped around the visible region.
	Margin int
	// Workers > 1 computes generations on that many goroutines.
	Workers int
	TPS     int

	Seed int64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:   1024,
		Height:  768,
		Scale:   viewport.DefaultScale,
		Rule:    lattice.Conway,
		Init:    lattice.EmptyPolicy(),
		Extend:  lattice.EmptyPolicy(),
		Margin:  1,
		Workers: 1,
		TPS:     0,
		Seed:    42,
	}
}

// FromMap populates a Config from a string map (flag-style key/value pairs).
// Unparseable values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["scale"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Scale = parsed
		}
	}
	if v, ok := cfg["rule"]; ok {
		if parsed, err := lattice.ParseRule(v); err == nil {
			c.Rule = parsed
		}
	}
	if v, ok := cfg["init"]; ok {
		if parsed, err := lattice.ParsePolicy(v); err == nil {
			c.Init = parsed
		}
	}
	if v, ok := cfg["extend"]; ok {
		if parsed, err := lattice.ParsePolicy(v); err == nil {
			c.Extend = parsed
		}
	}
	if v, ok := cfg["margin"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Margin = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["tps"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.TPS = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	return c
}

// ToMap is the inverse of FromMap.
func (c Config) ToMap() map[string]string {
	return map[string]string{
		"w":       strconv.Itoa(c.Width),
		"h":       strconv.Itoa(c.Height),
		"scale":   strconv.FormatFloat(c.Scale, 'f', -1, 64),
		"rule":    c.Rule.String(),
		"init":    c.Init.String(),
		"extend":  c.Extend.String(),
		"margin":  strconv.Itoa(c.Margin),
		"workers": strconv.Itoa(c.Workers),
		"tps":     strconv.Itoa(c.TPS),
		"seed":    strconv.FormatInt(c.Seed, 10),
	}
}
