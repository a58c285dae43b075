package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// SetFolder loads the config file at path (or defaults when it does not
// exist), updates the folder selection, and writes the file back.
func SetFolder(path, folder string) error {
	cfg, err := LoadOrDefault(path)
	if err != nil {
		return err
	}

	cfg.Folder = folder

	return Save(path, cfg)
}

// Save encodes the config as TOML and writes it to path, creating the
// parent directory when needed.
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}

	return nil
}
