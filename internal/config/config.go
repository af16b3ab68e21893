// Package config reads the application settings from the environment.
// Command-line flags override what is read here.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/roach88/patience/internal/logging"
)

// Config is the environment configuration.
type Config struct {
	GamesDir     string `env:"PATIENCE_GAMES_DIR" envDefault:"games"`
	DBPath       string `env:"PATIENCE_DB"`
	Profile      string `env:"PATIENCE_PROFILE"`
	LogLevel     string `env:"PATIENCE_LOG_LEVEL" envDefault:"info"`
	LogFile      string `env:"PATIENCE_LOG_FILE"`
	RecentLimit  int    `env:"PATIENCE_RECENT_LIMIT" envDefault:"5"`
	HistoryLimit int    `env:"PATIENCE_HISTORY_LIMIT" envDefault:"100"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads and validates the configuration. Without PATIENCE_DB the
// database lives in the user's configuration directory.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the environment parser cannot.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("PATIENCE_LOG_LEVEL: %w", err)
	}
	if c.RecentLimit < 0 {
		return fmt.Errorf("PATIENCE_RECENT_LIMIT: must not be negative, got %d", c.RecentLimit)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("PATIENCE_HISTORY_LIMIT: must not be negative, got %d", c.HistoryLimit)
	}
	return nil
}

// DefaultDBPath is patience/patience.db in the user configuration
// directory, or in the working directory when there is none.
func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "patience.db"
	}
	return filepath.Join(dir, "patience", "patience.db")
}
