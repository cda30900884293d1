package main

import (
	"fmt"
	"os"

	"codeberg.org/mutker/trainmetrics/internal/config"
	"codeberg.org/mutker/trainmetrics/internal/export"
	"codeberg.org/mutker/trainmetrics/internal/logger"
	"codeberg.org/mutker/trainmetrics/internal/metrics"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)
}

func main() {
	if _, err := os.Stat(cfg.MetricsPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: metrics file not found: %s\n", cfg.MetricsPath)
		os.Exit(1)
	}

	records, err := metrics.LoadFile(cfg.MetricsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	repo, err := export.NewRepository(cfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open export database")
	}

	if err := repo.Export(records); err != nil {
		repo.Close()
		logger.Fatal().Err(err).Msg("failed to export metrics")
	}

	if err := repo.Close(); err != nil {
		logger.Fatal().Err(err).Msg("failed to close export database")
	}

	logger.Info().
		Int("records", len(records)).
		Str("database", cfg.DatabasePath).
		Msg("Exported metrics")
}
