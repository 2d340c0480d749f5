// Package config handles application configuration loaded from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"

	"github.com/KyleGowen/excelsior-sub008/deckrules"
)

var ErrUnknownLogLevel = errors.New("unknown log level")

// Config holds server configuration.
type Config struct {
	HTTPPort int `env:"EXCELSIOR_HTTP_PORT" envDefault:"8080"`

	// CatalogPath seeds the card store on startup when set.
	CatalogPath  string `env:"EXCELSIOR_CATALOG_PATH"`
	DatabasePath string `env:"EXCELSIOR_DATABASE_PATH" envDefault:"data/catalog.db"`

	LogLevel    string `env:"EXCELSIOR_LOG_LEVEL"   envDefault:"info"`
	Environment string `env:"EXCELSIOR_ENVIRONMENT" envDefault:"dev"`

	DrawPileSeverity string `env:"EXCELSIOR_DRAW_PILE_SEVERITY" envDefault:"error"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return errors.Wrap(err, "failed to parse env")
	}
	return nil
}

// Load reads and validates the server configuration.
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}

	if _, err := cfg.Severity(); err != nil {
		return nil, err
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "dev" || c.Environment == "sandbox"
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// Severity returns the configured draw pile minimum severity.
func (c *Config) Severity() (deckrules.Severity, error) {
	return deckrules.ParseSeverity(c.DrawPileSeverity)
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Wrapf(ErrUnknownLogLevel, "%q", c.LogLevel)
	}
}

// Exitf prints to stderr and exits with status 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
