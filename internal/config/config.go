// Package config loads eventpermit settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by the form client and the backend.
type Config struct {
	// BackendURL is the base URL of the booking backend used by the client.
	BackendURL string `env:"EVENTPERMIT_BACKEND_URL" envDefault:"http://localhost:8080"`
	// DBPath is the SQLite file used by the backend. Empty means
	// ~/.eventpermit/events.db.
	DBPath string `env:"EVENTPERMIT_DB"`
	// ListenAddr is the address the backend serves on.
	ListenAddr string `env:"EVENTPERMIT_LISTEN" envDefault:":8080"`
	// LayoutPath optionally replaces the embedded form layout.
	LayoutPath string `env:"EVENTPERMIT_LAYOUT"`
	TimeoutMs  int    `env:"EVENTPERMIT_TIMEOUT_MS" envDefault:"5000"`
	MaxRetries int    `env:"EVENTPERMIT_MAX_RETRIES" envDefault:"1"`
	LogCalls   bool   `env:"EVENTPERMIT_LOG_CALLS" envDefault:"false"`
}

// DefaultConfig returns the built-in defaults without reading the environment.
func DefaultConfig() Config {
	return Config{
		BackendURL: "http://localhost:8080",
		ListenAddr: ":8080",
		TimeoutMs:  5000,
		MaxRetries: 1,
	}
}

// LoadConfig reads configuration from environment variables, falling back to
// defaults for any unset value.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = DefaultConfig().TimeoutMs
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return cfg, nil
}

// ResolveDBPath returns DBPath, or the default location under the user's
// home directory when it is unset.
func (c Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".eventpermit", "events.db"), nil
}
