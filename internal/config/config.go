// Package config holds viewer tuning read from HERITAGE_* environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/joeblew999/heritage-map/internal/viewport"
)

// Prefix is prepended to every variable name, e.g. HERITAGE_PADDING.
const Prefix = "HERITAGE"

// Config is the viewer tuning shared by the server and the CLI.
type Config struct {
	Padding      float64 `envconfig:"PADDING" default:"0.15"`
	DefaultFrame string  `envconfig:"DEFAULT_FRAME" default:"0 0 1000 1000"`
	CatalogFile  string  `envconfig:"CATALOG_FILE" default:"regions.yaml"`
	Log          LogConfig `envconfig:"LOG"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"console"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that would distort or collapse the viewport.
func (c *Config) Validate() error {
	if c.Padding < 0 || c.Padding > viewport.MaxPadding {
		return fmt.Errorf("HERITAGE_PADDING must be within 0..%g, got %g", viewport.MaxPadding, c.Padding)
	}
	if _, err := c.Frame(); err != nil {
		return fmt.Errorf("HERITAGE_DEFAULT_FRAME: %w", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("HERITAGE_LOG_FORMAT must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// Frame parses DefaultFrame, used when the region catalog carries none.
func (c *Config) Frame() (viewport.Frame, error) {
	return viewport.ParseViewBox(c.DefaultFrame)
}
