package main

import (
	"fmt"
	"os"

	"codeberg.org/mutker/trainmetrics/internal/config"
	"codeberg.org/mutker/trainmetrics/internal/errors"
	"codeberg.org/mutker/trainmetrics/internal/logger"
	"codeberg.org/mutker/trainmetrics/internal/metrics"
	"codeberg.org/mutker/trainmetrics/internal/plot"
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
	logger.Info().Int("records", len(records)).Str("path", cfg.MetricsPath).Msg("Loaded metrics")

	if len(records) == 0 {
		logger.Warn().Msg("No metrics to plot")
		return
	}

	if err := plot.Render(records, cfg.PlotDir); err != nil {
		// Chart rendering is best effort: report the failure and exit
		// cleanly without charts or summary
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.ErrorWithCode(appErr).Msg("Chart rendering failed, skipping charts")
		} else {
			logger.Error().Err(err).Msg("Chart rendering failed, skipping charts")
		}
		return
	}

	plot.WriteSummary(os.Stdout, records)
}
