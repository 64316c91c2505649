// Package config collects command-line and file settings for the binaries.
package config

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Mstrdav/cellular/internal/core"
	"github.com/Mstrdav/cellular/internal/lattice"
	"github.com/Mstrdav/cellular/internal/sims/life"
)

// ErrUnknownSim is returned when -sim names no registered simulation.
var ErrUnknownSim = errors.New("config: unknown sim")

// Config represents the command-line parameters shared by the binaries.
type Config struct {
	File string

	Sim     string
	Width   int
	Height  int
	Scale   float64
	TPS     int
	Seed    int64
	Init    string
	Extend  string
	Rule    string
	Margin  int
	Workers int
	Addr    string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	d := life.DefaultConfig()
	return &Config{
		Sim:     "life",
		Width:   d.Width,
		Height:  d.Height,
		Scale:   d.Scale,
		TPS:     d.TPS,
		Seed:    d.Seed,
		Init:    d.Init.String(),
		Extend:  d.Extend.String(),
		Margin:  d.Margin,
		Workers: d.Workers,
		Addr:    ":8080",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.File, "config", c.File, "optional YAML config file")
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Width, "width", c.Width, "surface width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "surface height in pixels")
	fs.Float64Var(&c.Scale, "scale", c.Scale, "cell size in pixels")
	fs.IntVar(&c.TPS, "tps", c.TPS, "generations per second while running (0 = every frame)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the random fill policy")
	fs.StringVar(&c.Init, "init", c.Init, "fill policy on reset: full|empty|checker|random:<p>")
	fs.StringVar(&c.Extend, "extend", c.Extend, "fill policy for revealed territory")
	fs.StringVar(&c.Rule, "rule", c.Rule, "B/S rule override, e.g. B3/S23")
	fs.IntVar(&c.Margin, "margin", c.Margin, "cells stepped beyond the visible region")
	fs.IntVar(&c.Workers, "workers", c.Workers, "goroutines computing each generation")
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address for the stream server")
}

// Load binds c to fs, parses args and overlays the YAML file named by
// -config. Flags given explicitly win over file values.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	c := NewConfig()
	c.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.File == "" {
		return c, c.Validate()
	}
	file, err := FromYaml(c.File)
	if err != nil {
		return nil, err
	}
	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	file.apply(c, explicit)
	return c, c.Validate()
}

// Validate checks that policy and rule strings parse.
func (c *Config) Validate() error {
	if _, err := lattice.ParsePolicy(c.Init); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if _, err := lattice.ParsePolicy(c.Extend); err != nil {
		return fmt.Errorf("extend: %w", err)
	}
	if c.Rule != "" {
		if _, err := lattice.ParseRule(c.Rule); err != nil {
			return fmt.Errorf("rule: %w", err)
		}
	}
	return nil
}

// SimOptions renders the simulation-facing settings as a factory map.
func (c *Config) SimOptions() map[string]string {
	opts := map[string]string{
		"w":       strconv.Itoa(c.Width),
		"h":       strconv.Itoa(c.Height),
		"scale":   strconv.FormatFloat(c.Scale, 'f', -1, 64),
		"tps":     strconv.Itoa(c.TPS),
		"seed":    strconv.FormatInt(c.Seed, 10),
		"init":    c.Init,
		"extend":  c.Extend,
		"margin":  strconv.Itoa(c.Margin),
		"workers": strconv.Itoa(c.Workers),
	}
	if c.Rule != "" {
		opts["rule"] = c.Rule
	}
	return opts
}

// NewSim builds the configured simulation from the registry.
func (c *Config) NewSim() (*life.Life, error) {
	factory, ok := core.Sims()[c.Sim]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownSim, c.Sim, core.Names())
	}
	sim, ok := factory(c.SimOptions()).(*life.Life)
	if !ok {
		return nil, fmt.Errorf("%w %q: not a lattice simulation", ErrUnknownSim, c.Sim)
	}
	return sim, nil
}

// File is the on-disk configuration. Absent keys leave the flag defaults.
type File struct {
	Sim     *string  `yaml:"sim"`
	Width   *int     `yaml:"width"`
	Height  *int     `yaml:"height"`
	Scale   *float64 `yaml:"scale"`
	TPS     *int     `yaml:"tps"`
	Seed    *int64   `yaml:"seed"`
	Init    *string  `yaml:"init"`
	Extend  *string  `yaml:"extend"`
	Rule    *string  `yaml:"rule"`
	Margin  *int     `yaml:"margin"`
	Workers *int     `yaml:"workers"`
	Addr    *string  `yaml:"addr"`
}

// FromYaml reads path through viper and decodes the "cellular" section, or
// the whole document when that section is absent.
func FromYaml(path string) (*File, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	settings := vp.AllSettings()
	if section := vp.GetStringMap("cellular"); len(section) > 0 {
		settings = section
	}

	raw, err := yaml.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("encode config %s: %w", path, err)
	}
	file := &File{}
	if err := yaml.Unmarshal(raw, file); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return file, nil
}

func (f *File) apply(c *Config, explicit map[string]bool) {
	setString(&c.Sim, f.Sim, explicit["sim"])
	setInt(&c.Width, f.Width, explicit["width"])
	setInt(&c.Height, f.Height, explicit["height"])
	if f.Scale != nil && !explicit["scale"] {
		c.Scale = *f.Scale
	}
	setInt(&c.TPS, f.TPS, explicit["tps"])
	if f.Seed != nil && !explicit["seed"] {
		c.Seed = *f.Seed
	}
	setString(&c.Init, f.Init, explicit["init"])
	setString(&c.Extend, f.Extend, explicit["extend"])
	setString(&c.Rule, f.Rule, explicit["rule"])
	setInt(&c.Margin, f.Margin, explicit["margin"])
	setInt(&c.Workers, f.Workers, explicit["workers"])
	setString(&c.Addr, f.Addr, explicit["addr"])
}

func setString(dst *string, v *string, locked bool) {
	if v != nil && !locked {
		*dst = *v
	}
}

func setInt(dst *int, v *int, locked bool) {
	if v != nil && !locked {
		*dst = *v
	}
}
