// Package config loads optional YAML defaults for the CLI flags that
// spec.md §6.1 describes (--token-sep, --data-def). It is adapted from
// the teacher's internal/config/yaml.go: a missing file is not an error,
// only a malformed one is.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds defaults that CLI flags may override.
type Config struct {
	TokenSep string `yaml:"token_sep"`
	DataDef  string `yaml:"data_def"`
}

// Load reads a YAML config file at path. A missing file yields a zero
// Config and a nil error; a file that exists but fails to parse returns
// an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return &cfg, nil
}

// TokenSepOr returns c.TokenSep if set, else fallback. Used so an
// explicit --token-sep flag takes precedence over the YAML default,
// which in turn takes precedence over the built-in default.
func (c *Config) TokenSepOr(fallback string) string {
	if c == nil || c.TokenSep == "" {
		return fallback
	}
	return c.TokenSep
}

// DataDefOr returns c.DataDef if set, else fallback.
func (c *Config) DataDefOr(fallback string) string {
	if c == nil || c.DataDef == "" {
		return fallback
	}
	return c.DataDef
}
