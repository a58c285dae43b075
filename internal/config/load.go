package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// CLIOverrides holds values from command-line flags, the highest-precedence
// layer of the override chain.
type CLIOverrides struct {
	ConfigPath string
	Folder     string
}

// Resolved is the effective configuration after the override chain:
// defaults -> config file -> environment -> CLI flags.
type Resolved struct {
	ConfigPath string
	BaseURL    string
	Email      string
	Folder     string
	LogLevel   string
}

// Load reads and parses a TOML config file, validates it, and returns the
// resulting Config. Unknown keys are fatal — silently ignoring a typo in a
// config file leads to hard-to-debug behavior.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}

		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault reads a TOML config file if it exists, otherwise returns a
// Config populated with defaults. Supports the zero-config first run.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// Resolve applies the full override chain and returns the effective
// configuration along with the config path it was read from.
func Resolve(env EnvOverrides, cli CLIOverrides) (*Resolved, error) {
	cfgPath := DefaultConfigPath()
	if env.ConfigPath != "" {
		cfgPath = env.ConfigPath
	}

	if cli.ConfigPath != "" {
		cfgPath = cli.ConfigPath
	}

	cfg, err := LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}

	resolved := &Resolved{
		ConfigPath: cfgPath,
		BaseURL:    cfg.BaseURL,
		Email:      cfg.Email,
		Folder:     cfg.Folder,
		LogLevel:   cfg.LogLevel,
	}

	if env.BaseURL != "" {
		resolved.BaseURL = env.BaseURL
	}

	if env.Email != "" {
		resolved.Email = env.Email
	}

	if env.Folder != "" {
		resolved.Folder = env.Folder
	}

	if cli.Folder != "" {
		resolved.Folder = cli.Folder
	}

	return resolved, nil
}
