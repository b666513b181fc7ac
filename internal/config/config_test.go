package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"MONEYBOOK_BACKEND", "MONEYBOOK_SQLITE_PATH", "MONEYBOOK_DATA_DIR", "MONEYBOOK_LOG_LEVEL", "MONEYBOOK_MATERIALIZE_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Backend != "sqlite" {
		t.Errorf("Backend = %q, want sqlite", cfg.Backend)
	}
	if cfg.SQLitePath == "" {
		t.Error("SQLitePath default missing")
	}
	if cfg.MaterializeInterval != time.Hour {
		t.Errorf("MaterializeInterval = %v, want 1h", cfg.MaterializeInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MONEYBOOK_BACKEND", "file")
	t.Setenv("MONEYBOOK_DATA_DIR", "/tmp/mb")
	t.Setenv("MONEYBOOK_LOG_LEVEL", "debug")
	t.Setenv("MONEYBOOK_MATERIALIZE_INTERVAL", "30m")

	cfg := Load()
	if cfg.Backend != "file" || cfg.DataDir != "/tmp/mb" || cfg.LogLevel != "debug" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.MaterializeInterval != 30*time.Minute {
		t.Fatalf("MaterializeInterval = %v, want 30m", cfg.MaterializeInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid env config rejected: %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Backend:             "sqlite",
			SQLitePath:          "./data/m.db",
			DataDir:             "./data",
			LogLevel:            "info",
			MaterializeInterval: time.Hour,
		}
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"memory backend", func(c *Config) { c.Backend = "memory" }, ""},
		{"unknown backend", func(c *Config) { c.Backend = "postgres" }, "invalid backend"},
		{"sqlite without path", func(c *Config) { c.SQLitePath = "" }, "sqlite path"},
		{"file without dir", func(c *Config) { c.Backend = "file"; c.DataDir = "" }, "data directory"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "invalid log level"},
		{"interval too short", func(c *Config) { c.MaterializeInterval = time.Second }, "at least 1 minute"},
		{"interval too long", func(c *Config) { c.MaterializeInterval = 48 * time.Hour }, "at most 24 hours"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected ok, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %v does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateAggregatesProblems(t *testing.T) {
	cfg := &Config{Backend: "postgres", LogLevel: "loud", MaterializeInterval: time.Second}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"invalid backend", "invalid log level", "at least 1 minute"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("aggregated error missing %q: %v", want, err)
		}
	}
}
