// Package config loads console configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything tunable from the environment. Defaults match
// the production backend; BLR_STATE_DIR overrides where the session file
// and debug log live (default ~/.blr-admin).
type Config struct {
	APIURL         string        `env:"BLR_API_URL" envDefault:"https://blr-backend-production.up.railway.app"`
	RequestTimeout time.Duration `env:"BLR_REQUEST_TIMEOUT" envDefault:"30s"`
	UsersCacheTTL  time.Duration `env:"BLR_USERS_CACHE_TTL" envDefault:"5m"`
	AdminsCacheTTL time.Duration `env:"BLR_ADMINS_CACHE_TTL" envDefault:"5m"`
	StateDir       string        `env:"BLR_STATE_DIR"`
	Debug          bool          `env:"BLR_DEBUG"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ResolveStateDir returns the directory for persisted client state,
// creating nothing. Empty StateDir falls back to ~/.blr-admin.
func (c Config) ResolveStateDir() (string, error) {
	if c.StateDir != "" {
		return c.StateDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".blr-admin"), nil
}

// SessionPath returns the session file location inside the state dir.
func (c Config) SessionPath() (string, error) {
	dir, err := c.ResolveStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

// LogPath returns the debug log location inside the state dir.
func (c Config) LogPath() (string, error) {
	dir, err := c.ResolveStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "debug.log"), nil
}
