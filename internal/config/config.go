// Package config handles loading, parsing, and validating the tracker's
// YAML configuration file, with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/kvba0000/gms-stats-tracker-go/internal/constants"
)

// Duration wraps time.Duration so it parses from "3h"-style strings in
// both YAML and environment variables.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds the tracker configuration. Every field can be overridden
// by the environment variable named in its env tag.
type Config struct {
	UpstreamURL         string   `yaml:"upstream_url" env:"UPSTREAM_URL"`
	PollIntervalMinutes int      `yaml:"poll_interval_minutes" env:"POLL_INTERVAL_MINUTES"`
	ScreenshotTTL       Duration `yaml:"screenshot_ttl" env:"SCREENSHOT_TTL"`
	HTTPTimeout         Duration `yaml:"http_timeout" env:"HTTP_TIMEOUT"`
	Port                string   `yaml:"port" env:"PORT"`
	CardFormat          string   `yaml:"card_format" env:"CARD_FORMAT"`
	JPEGQuality         int      `yaml:"jpeg_quality" env:"JPEG_QUALITY"`
	DownloadWorkers     int      `yaml:"download_workers" env:"DOWNLOAD_WORKERS"`
	LogLevel            string   `yaml:"log_level" env:"LOG_LEVEL"`
	LogDir              string   `yaml:"log_dir" env:"LOG_DIR"`
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		UpstreamURL:         constants.UpstreamURL,
		PollIntervalMinutes: constants.DefaultPollIntervalMinutes,
		ScreenshotTTL:       Duration(constants.DefaultScreenshotTTL),
		HTTPTimeout:         Duration(constants.DefaultHTTPTimeout),
		Port:                "8080",
		CardFormat:          "png",
		JPEGQuality:         90,
		DownloadWorkers:     constants.DefaultDownloadWorkers,
	}
}

// Load reads the YAML config file at path (if it exists), then overlays
// environment variables. A missing file is not an error; the defaults
// plus environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// fall through to defaults + env
		default:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults backfills zero values left by partial config files.
func applyDefaults(cfg *Config) {
	if cfg.UpstreamURL == "" {
		cfg.UpstreamURL = constants.UpstreamURL
	}
	if cfg.ScreenshotTTL <= 0 {
		cfg.ScreenshotTTL = Duration(constants.DefaultScreenshotTTL)
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = Duration(constants.DefaultHTTPTimeout)
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.CardFormat == "" {
		cfg.CardFormat = "png"
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = 90
	}
	if cfg.DownloadWorkers <= 0 {
		cfg.DownloadWorkers = constants.DefaultDownloadWorkers
	}
}

// PollInterval returns the poll period, falling back to the default when
// the configured value is unset or non-positive.
func (c *Config) PollInterval() time.Duration {
	minutes := c.PollIntervalMinutes
	if minutes <= 0 {
		minutes = constants.DefaultPollIntervalMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// Validate checks the configuration for common errors.
func Validate(cfg *Config) error {
	if cfg.UpstreamURL == "" {
		return fmt.Errorf("upstream_url is required")
	}
	if cfg.CardFormat != "png" && cfg.CardFormat != "jpeg" {
		return fmt.Errorf("card_format must be png or jpeg, got %q", cfg.CardFormat)
	}
	return nil
}
