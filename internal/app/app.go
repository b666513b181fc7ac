// Package app is the composition root. The engine has no ambient
// singletons; a host embedding this module calls Open once, passes the
// returned engine to its presentation layer, and closes it on exit.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"

	"moneybook/internal/config"
	"moneybook/internal/engine"
	"moneybook/internal/log"
	"moneybook/internal/store"
)

// App bundles the wired engine with the resources behind it.
type App struct {
	Config *config.Config
	Engine *engine.Engine

	store  store.Store
	logger *slog.Logger
}

// Open loads the environment and configuration, opens the configured
// store, and returns a fully loaded engine (defaults seeded, initial
// materialization pass done).
func Open(ctx context.Context) (*App, error) {
	// .env is a local-development convenience; absence is fine.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := log.New(log.ParseLevel(cfg.LogLevel), log.ComponentApp)
	log.SetDefault(logger)

	st, err := store.Open(store.Options{
		Backend:    store.Backend(cfg.Backend),
		SQLitePath: cfg.SQLitePath,
		DataDir:    cfg.DataDir,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	eng := engine.New(st, engine.WithLogger(logger))
	if err := eng.Load(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("load engine: %w", err)
	}

	logger.InfoContext(ctx, "moneybook ready", log.FieldBackend, cfg.Backend)
	return &App{Config: cfg, Engine: eng, store: st, logger: logger}, nil
}

// Run keeps the periodic materializer going until ctx is cancelled.
// Hosts that only live for one foreground interaction can skip it; the
// load-time pass already covered the current day.
func (a *App) Run(ctx context.Context) {
	a.Engine.RunMaterializer(ctx, a.Config.MaterializeInterval)
}

// Close flushes pending writes and releases the store.
func (a *App) Close() error {
	if err := a.Engine.Close(); err != nil {
		return fmt.Errorf("close engine: %w", err)
	}
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	a.logger.Info("moneybook closed")
	return nil
}
