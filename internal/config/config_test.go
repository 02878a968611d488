package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIURL == "" {
		t.Error("APIURL default is empty")
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
	if cfg.UsersCacheTTL != 5*time.Minute {
		t.Errorf("UsersCacheTTL = %v, want 5m", cfg.UsersCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BLR_API_URL", "http://localhost:9090")
	t.Setenv("BLR_USERS_CACHE_TTL", "90s")
	t.Setenv("BLR_DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIURL != "http://localhost:9090" {
		t.Errorf("APIURL = %q, want override", cfg.APIURL)
	}
	if cfg.UsersCacheTTL != 90*time.Second {
		t.Errorf("UsersCacheTTL = %v, want 90s", cfg.UsersCacheTTL)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
}

func TestStatePaths(t *testing.T) {
	cfg := Config{StateDir: "/tmp/blr-test"}
	p, err := cfg.SessionPath()
	if err != nil {
		t.Fatalf("SessionPath() error: %v", err)
	}
	if p != filepath.Join("/tmp/blr-test", "session.json") {
		t.Errorf("SessionPath = %q", p)
	}
	lp, err := cfg.LogPath()
	if err != nil {
		t.Fatalf("LogPath() error: %v", err)
	}
	if lp != filepath.Join("/tmp/blr-test", "debug.log") {
		t.Errorf("LogPath = %q", lp)
	}
}
