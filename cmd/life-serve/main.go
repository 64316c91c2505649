package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mstrdav/cellular/internal/config"
	"github.com/Mstrdav/cellular/internal/stream"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("serving %s (%dx%d px, scale %.1f)", sim.Name(), cfg.Width, cfg.Height, cfg.Scale)
	if err := stream.NewServer(sim).Run(ctx, cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
