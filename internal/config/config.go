// Package config loads and resolves ledgerflow-go configuration from the
// TOML config file, environment variables, and CLI flags, in that
// precedence order (flags win).
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// defaultBaseURL is the production API endpoint. Override it in the config
// file or with LEDGERFLOW_BASE_URL to point at a sandbox or a test double.
const defaultBaseURL = "https://api.ledgerflow.com/v1"

// Valid log levels.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Config is the on-disk configuration shape.
type Config struct {
	BaseURL  string `toml:"base_url"`
	Email    string `toml:"email"`
	Folder   string `toml:"folder"`
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:  defaultBaseURL,
		LogLevel: "info",
	}
}

// Validate checks a loaded Config for values that would fail later in
// confusing ways: an unparseable base URL or an unknown log level.
func Validate(cfg *Config) error {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url %q: %w", cfg.BaseURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url %q: scheme must be http or https", cfg.BaseURL)
	}

	if cfg.LogLevel != "" && !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("log_level %q: must be one of debug, info, warn, error", cfg.LogLevel)
	}

	if cfg.Email != "" && !strings.Contains(cfg.Email, "@") {
		return fmt.Errorf("email %q: not an email address", cfg.Email)
	}

	return nil
}
