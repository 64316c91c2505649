package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Mstrdav/cellular/internal/lattice"
	"github.com/Mstrdav/cellular/internal/sims/life"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cellular.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	Convey("Given the default flag set", t, func() {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)

		Convey("When no arguments are passed", func() {
			cfg, err := Load(fs, nil)
			So(err, ShouldBeNil)

			Convey("Then defaults mirror the simulation defaults", func() {
				d := life.DefaultConfig()
				So(cfg.Sim, ShouldEqual, "life")
				So(cfg.Scale, ShouldEqual, d.Scale)
				So(cfg.Init, ShouldEqual, "empty")
				So(cfg.Extend, ShouldEqual, "empty")
				So(cfg.Margin, ShouldEqual, 1)
			})
		})

		Convey("When a config file and an explicit flag disagree", func() {
			path := writeFile(t, "cellular:\n  scale: 20\n  tps: 15\n  extend: random:0.05\n  rule: B36/S23\n")
			cfg, err := Load(fs, []string{"-config", path, "-tps", "30"})
			So(err, ShouldBeNil)

			Convey("Then the flag wins and other file values apply", func() {
				So(cfg.TPS, ShouldEqual, 30)
				So(cfg.Scale, ShouldEqual, 20)
				So(cfg.Extend, ShouldEqual, "random:0.05")
				So(cfg.Rule, ShouldEqual, "B36/S23")
			})

			Convey("Then the options build the configured simulation", func() {
				sc := life.FromMap(cfg.SimOptions())
				So(sc.Extend, ShouldResemble, lattice.RandomPolicy(0.05))
				So(sc.Rule, ShouldResemble, lattice.HighLife)
				So(sc.TPS, ShouldEqual, 30)
			})
		})

		Convey("When the file has no cellular section", func() {
			path := writeFile(t, "width: 640\nheight: 480\nseed: 9\n")
			cfg, err := Load(fs, []string{"-config", path})
			So(err, ShouldBeNil)
			So(cfg.Width, ShouldEqual, 640)
			So(cfg.Height, ShouldEqual, 480)
			So(cfg.Seed, ShouldEqual, 9)
		})

		Convey("When the policy is malformed", func() {
			_, err := Load(fs, []string{"-init", "stripes"})
			So(errors.Is(err, lattice.ErrUnknownPolicy), ShouldBeTrue)
		})

		Convey("When the rule is malformed", func() {
			_, err := Load(fs, []string{"-rule", "B9"})
			So(errors.Is(err, lattice.ErrInvalidRule), ShouldBeTrue)
		})

		Convey("When the file does not exist", func() {
			_, err := Load(fs, []string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
			So(err, ShouldNotBeNil)
		})

		Convey("When the sim is registered", func() {
			cfg, err := Load(fs, []string{"-sim", "highlife", "-margin", "3"})
			So(err, ShouldBeNil)
			sim, err := cfg.NewSim()
			So(err, ShouldBeNil)
			So(sim.Name(), ShouldEqual, "highlife")
			So(sim.Config().Rule, ShouldResemble, lattice.HighLife)
			So(sim.Config().Margin, ShouldEqual, 3)
		})

		Convey("When the sim is not registered", func() {
			cfg, err := Load(fs, []string{"-sim", "langton"})
			So(err, ShouldBeNil)
			_, err = cfg.NewSim()
			So(errors.Is(err, ErrUnknownSim), ShouldBeTrue)
		})
	})
}
