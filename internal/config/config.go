// Package config loads per-segment options from the status-line
// configuration file. A missing or broken file yields an empty
// configuration so every option falls back to its documented default.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const defaultConfigRelativePath = ".claude/ccline/config.json"

type Config struct {
	Segments []SegmentConfig `json:"segments"`
}

type SegmentConfig struct {
	ID      string         `json:"id"`
	Options map[string]any `json:"options"`
}

// DefaultPath resolves the configuration file location under the user's
// home directory.
func DefaultPath() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, filepath.FromSlash(defaultConfigRelativePath)), true
}

// Load reads the default configuration file. Any failure yields an
// empty configuration, never an error.
func Load() Config {
	path, ok := DefaultPath()
	if !ok {
		return Config{}
	}
	return LoadFile(path)
}

// LoadFile reads a configuration file at an explicit path with the same
// fail-soft contract as Load.
func LoadFile(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// Options returns the option map for a segment id, or nil when the
// segment is not configured.
func (c Config) Options(id string) map[string]any {
	for _, seg := range c.Segments {
		if seg.ID == id {
			return seg.Options
		}
	}
	return nil
}

// StringOption returns the named option when present and a string,
// otherwise fallback.
func StringOption(opts map[string]any, key, fallback string) string {
	if v, ok := opts[key].(string); ok {
		return v
	}
	return fallback
}

// IntOption returns the named option when present and numeric, otherwise
// fallback. JSON numbers decode as float64.
func IntOption(opts map[string]any, key string, fallback int) int {
	switch v := opts[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}
