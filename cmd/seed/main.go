package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/bootstrap"
	"github.com/Domenick1991/flightbooking/internal/seed"
)

func main() {
	file := flag.String("file", "flights.example.yaml", "flights to import (.yaml, .yml or .json)")
	dryRun := flag.Bool("dry-run", false, "validate the file without writing")
	flag.Parse()

	flights, err := seed.LoadFile(*file)
	if err != nil {
		log.Fatalf("load flights: %v", err)
	}
	log.Printf("%s: %d valid flights", *file, len(flights))
	if *dryRun {
		return
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := bootstrap.OpenStorage(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("open %s storage: %v", cfg.Database.Driver, err)
	}
	defer storage.Close()

	n, err := seed.Import(ctx, storage.Flights, flights)
	if err != nil {
		log.Printf("imported %d of %d flights", n, len(flights))
		storage.Close()
		log.Fatalf("import: %v", err)
	}
	log.Printf("imported %d flights", n)
}
