// Package config loads the module configuration from the environment.
// A .env file, when present, is applied by the composition root before
// Load runs.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds every tunable of the module.
type Config struct {
	// Store backend: sqlite, file or memory.
	Backend string

	// SQLite backend.
	SQLitePath string

	// File backend.
	DataDir string

	// Logging.
	LogLevel string

	// How often a long-lived host re-runs the materializer.
	MaterializeInterval time.Duration
}

// Load reads the configuration from environment variables, falling
// back to defaults suitable for a single-device deployment.
func Load() *Config {
	return &Config{
		Backend:             getEnv("MONEYBOOK_BACKEND", "sqlite"),
		SQLitePath:          getEnv("MONEYBOOK_SQLITE_PATH", "./data/moneybook.db"),
		DataDir:             getEnv("MONEYBOOK_DATA_DIR", "./data"),
		LogLevel:            getEnv("MONEYBOOK_LOG_LEVEL", "info"),
		MaterializeInterval: getEnvDuration("MONEYBOOK_MATERIALIZE_INTERVAL", time.Hour),
	}
}

// Validate checks the configuration and returns one error aggregating
// every problem found.
func (c *Config) Validate() error {
	var problems []string

	switch c.Backend {
	case "sqlite":
		if c.SQLitePath == "" {
			problems = append(problems, "sqlite path cannot be empty when using the sqlite backend")
		}
	case "file":
		if c.DataDir == "" {
			problems = append(problems, "data directory cannot be empty when using the file backend")
		}
	case "memory":
	default:
		problems = append(problems, fmt.Sprintf("invalid backend %q: must be one of sqlite, file, memory", c.Backend))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level %q", c.LogLevel))
	}

	if c.MaterializeInterval < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid materialize interval %v: must be at least 1 minute", c.MaterializeInterval))
	} else if c.MaterializeInterval > 24*time.Hour {
		problems = append(problems, fmt.Sprintf("invalid materialize interval %v: must be at most 24 hours", c.MaterializeInterval))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
