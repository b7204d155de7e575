package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"spendlens/adapters/ingest"
	"spendlens/adapters/rng"
	"spendlens/adapters/stats/engine"
	"spendlens/app"
	"spendlens/internal/config"
	"spendlens/internal/logger"
	"spendlens/ports"
	"spendlens/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reader ports.DatasetReader = ingest.NewDataReader(cfg.Data.Path, log).WithSheet(cfg.Data.Sheet)
	dataset, err := reader.Read(ctx)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	log.Info().Int("rows", dataset.Len()).Int("dropped", dataset.Dropped()).Msg("dataset loaded")

	eng := engine.New(engine.WithNormalApproxThreshold(cfg.Analysis.NormalApproxThreshold))
	service := app.NewAnalysisService(dataset, eng, rng.New(), cfg.Analysis.CacheTTL, log)

	return ui.NewServer(service, cfg, log).Run(ctx)
}
