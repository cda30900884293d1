package config

import (
	"os"

	"codeberg.org/mutker/trainmetrics/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultMetricsPath = "runs/pico64/metrics.json"
	DefaultPlotDir     = "runs/pico64/plots"
	DefaultDBPath      = "runs/pico64/metrics.db"
	DefaultLogLevel    = "info"
)

type Config struct {
	MetricsPath  string `mapstructure:"metrics"`
	PlotDir      string `mapstructure:"output"`
	DatabasePath string `mapstructure:"database"`
	LogLevel     string `mapstructure:"log_level"`
	Debug        bool   `mapstructure:"debug"`
	Verbose      bool   `mapstructure:"verbose"`
}

// Load merges command line flags, an optional TOML config file and
// environment variables into a Config. Flags take precedence over the
// file, the file over defaults. The config file is looked up in the
// working directory unless TRAINMETRICS_CONFIG points elsewhere.
func Load() (*Config, error) {
	errFactory := errors.New()

	// A fresh flag set per call so repeated loads do not collide
	fs := pflag.NewFlagSet("trainmetrics", pflag.ContinueOnError)
	fs.String("metrics", DefaultMetricsPath, "Path to the metrics JSON file")
	fs.String("output", DefaultPlotDir, "Output directory for chart images")
	fs.String("database", DefaultDBPath, "Path to the SQLite export database")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.Bool("debug", false, "Enable debugging mode")
	fs.Bool("verbose", false, "Enable verbose logging")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetConfigName("trainmetrics")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if path := os.Getenv("TRAINMETRICS_CONFIG"); path != "" {
		v.SetConfigFile(path)
	}
	v.SetEnvPrefix("TRAINMETRICS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	if err := v.BindPFlags(fs); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	// The flag is spelled log-level, the file key log_level
	if err := v.BindPFlag("log_level", fs.Lookup("log-level")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if !isValidLogLevel(cfg.LogLevel) {
		return nil, errFactory.New(errors.ErrInvalidLogLevel)
	}

	if cfg.Debug {
		cfg.LogLevel = "debug"
	} else if cfg.Verbose && cfg.LogLevel == DefaultLogLevel {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warning", "error":
		return true
	default:
		return false
	}
}
