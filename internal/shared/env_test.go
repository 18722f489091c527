package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFile(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		if err := LoadEnvFile(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if err := LoadEnvFile(""); err != nil {
			t.Errorf("expected no error for empty path, got %v", err)
		}
	})

	t.Run("sets unset variables only", func(t *testing.T) {
		t.Setenv(EnvPrefix+"SERVER_HOST", "10.0.0.1")
		t.Setenv(EnvPrefix+"LOG_LEVEL", "")
		os.Unsetenv(EnvPrefix + "LOG_LEVEL")
		t.Cleanup(func() { os.Unsetenv(EnvPrefix + "LOG_LEVEL") })

		path := filepath.Join(t.TempDir(), ".env")
		content := "MUSICPREF_SERVER_HOST=0.0.0.0\nMUSICPREF_LOG_LEVEL=debug\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}

		if err := LoadEnvFile(path); err != nil {
			t.Fatalf("failed to load env file: %v", err)
		}

		if got := os.Getenv(EnvPrefix + "SERVER_HOST"); got != "10.0.0.1" {
			t.Errorf("expected existing variable to win, got %q", got)
		}
		if got := os.Getenv(EnvPrefix + "LOG_LEVEL"); got != "debug" {
			t.Errorf("expected LOG_LEVEL from file, got %q", got)
		}
	})
}

func TestApplyEnv(t *testing.T) {
	t.Run("overrides keys", func(t *testing.T) {
		t.Setenv(EnvPrefix+"DATABASE_PATH", "/tmp/env.db")
		t.Setenv(EnvPrefix+"SERVER_PORT", "9090")
		t.Setenv(EnvPrefix+"SERVER_RATE_LIMIT", "2.5")
		t.Setenv(EnvPrefix+"LOG_FILE", "/tmp/musicpref.log")
		t.Setenv(EnvPrefix+"SEED_ENABLED", "false")

		config := DefaultConfig()
		if err := config.ApplyEnv(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if config.Database.Path != "/tmp/env.db" {
			t.Errorf("expected database path override, got %s", config.Database.Path)
		}
		if config.Server.Port != 9090 || config.Server.RateLimit != 2.5 {
			t.Errorf("expected server overrides, got %+v", config.Server)
		}
		if config.Logging.File != "/tmp/musicpref.log" {
			t.Errorf("expected log file override, got %s", config.Logging.File)
		}
		if config.Seed.Enabled {
			t.Error("expected seeding disabled")
		}
		if config.Server.Host != DefaultConfig().Server.Host {
			t.Errorf("expected unset host to keep default, got %s", config.Server.Host)
		}
	})

	tc := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port not a number", key: "SERVER_PORT", value: "http"},
		{name: "port out of range", key: "SERVER_PORT", value: "70000"},
		{name: "negative rate limit", key: "SERVER_RATE_LIMIT", value: "-1"},
		{name: "seed not a bool", key: "SEED_ENABLED", value: "sometimes"},
		{name: "empty database path", key: "DATABASE_PATH", value: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvPrefix+tt.key, tt.value)

			err := DefaultConfig().ApplyEnv()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
