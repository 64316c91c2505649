//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Mstrdav/cellular/internal/app"
	"github.com/Mstrdav/cellular/internal/config"
)

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	sim, err := cfg.NewSim()
	if err != nil {
		log.Fatal(err)
	}

	game := app.New(sim)

	ebiten.SetWindowTitle("cellular - " + sim.Name())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
