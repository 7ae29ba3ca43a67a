// Package config loads server configuration from config.yaml in the data
// directory, falling back to defaults when the file is absent.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rowdb/rowdb/internal/server/ratelimit"
)

// Config holds server settings.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr" json:"addr"`
	// DatabaseFile is the SQLite file path, relative to the data directory
	// when not absolute.
	DatabaseFile string `yaml:"database_file" json:"database_file"`
	// MaxRequestBodyBytes caps the size of request bodies.
	MaxRequestBodyBytes int64 `yaml:"max_request_body_bytes" json:"max_request_body_bytes"`
	// RateLimits are the per-minute request budgets.
	RateLimits ratelimit.Limits `yaml:"rate_limits" json:"rate_limits"`

	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Default returns default settings.
func Default() *Config {
	return &Config{
		Addr:                "localhost:8080",
		DatabaseFile:        "rowdb.db",
		MaxRequestBodyBytes: 1 << 20,
		RateLimits:          ratelimit.DefaultLimits(),
		LogLevel:            getEnv("ROWDB_LOG_LEVEL", "info"),
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Load loads config from <dataDir>/config.yaml. A missing file yields the
// defaults; a malformed one is an error.
func Load(dataDir string) (*Config, error) {
	configPath := filepath.Join(dataDir, "config.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // G304: path is constructed from dataDir flag, not user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to <dataDir>/config.yaml.
func (c *Config) Save(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dataDir, "config.yaml"), data, 0o644); err != nil { //nolint:gosec // G306: config holds no secrets
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DatabasePath resolves the SQLite file path against the data directory.
func (c *Config) DatabasePath(dataDir string) string {
	if filepath.IsAbs(c.DatabaseFile) {
		return c.DatabaseFile
	}
	return filepath.Join(dataDir, c.DatabaseFile)
}
