package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// EmbeddedSource is the source name reported when no file was found.
const EmbeddedSource = "embedded"

// DefaultYAML returns the embedded default configuration document.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// Load reads the configuration. Search order: customPath, then
// ~/.gamejr/config.yaml, then ./configs/gamejr.yaml, then the embedded
// default. Fields missing from a file keep their default values. The
// returned string names the source that was used.
func Load(customPath string) (Config, string, error) {
	if customPath != "" {
		cfg, err := LoadFile(customPath)
		return cfg, customPath, err
	}
	for _, path := range searchPaths() {
		cfg, err := LoadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, path, err
	}
	cfg, err := Parse(defaultYAML)
	if err != nil {
		return Default(), EmbeddedSource, nil
	}
	return cfg, EmbeddedSource, nil
}

// LoadFile reads and validates a single file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document over the defaults and validates it.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}

// UserPath returns ~/.gamejr/config.yaml, or "" when home is unknown.
func UserPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gamejr", "config.yaml")
}

func searchPaths() []string {
	var paths []string
	if p := UserPath(); p != "" {
		paths = append(paths, p)
	}
	return append(paths, filepath.Join("configs", "gamejr.yaml"))
}
