// Package engine implements the transaction state engine: the single
// owner of the transaction, category and recurring-rule collections.
// All mutations go through the engine, which applies them in memory
// synchronously and persists them asynchronously through a store.
// Reads always observe the most recent committed in-memory state and
// are never blocked by persistence.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"moneybook/internal/cache"
	"moneybook/internal/core"
	"moneybook/internal/log"
	"moneybook/internal/store"
)

const (
	overviewCacheSize = 24
	overviewCacheTTL  = 5 * time.Minute
)

// Engine owns the three collections for the lifetime of the process.
// The store holds the durable copy but never interprets it.
type Engine struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time

	mu           sync.Mutex
	transactions []core.Transaction
	categories   []core.Category
	rules        []core.RecurringRule
	loading      bool

	writer    *writer
	overviews *cache.LRU[core.MonthOverview]
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock replaces the wall clock. Tests use this to pin "today" for
// materialization.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over st. The engine starts in the loading state
// and gates all persistence until Load completes, so a fresh process
// can never overwrite durable state with its own empty defaults.
func New(st store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:     st,
		logger:    slog.Default(),
		now:       time.Now,
		loading:   true,
		overviews: cache.New[core.MonthOverview](overviewCacheSize, overviewCacheTTL),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = log.WithComponent(e.logger, log.ComponentEngine)
	e.writer = newWriter(st, e.logger)
	return e
}

// Load fetches the three documents, seeds default categories on first
// run, and runs an initial materialization pass. Store and decode
// failures degrade to empty collections; only context cancellation is
// returned as an error.
func (e *Engine) Load(ctx context.Context) error {
	var (
		txs   []core.Transaction
		cats  []core.Category
		rules []core.RecurringRule
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		txs, err = loadCollection[core.Transaction](gctx, e.store, e.logger, store.KeyTransactions)
		return err
	})
	g.Go(func() (err error) {
		cats, err = loadCollection[core.Category](gctx, e.store, e.logger, store.KeyCategories)
		return err
	})
	g.Go(func() (err error) {
		rules, err = loadCollection[core.RecurringRule](gctx, e.store, e.logger, store.KeyRecurringRules)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	e.mu.Lock()
	e.transactions = txs
	e.rules = rules
	e.categories = cats
	seeded := false
	if len(e.categories) == 0 {
		e.categories = core.DefaultCategories()
		seeded = true
	}
	e.loading = false
	if seeded {
		e.persistLocked(store.KeyCategories)
	}
	created := e.materializeLocked()
	e.mu.Unlock()

	e.logger.InfoContext(ctx, "state loaded",
		"transactions", len(txs),
		"categories", len(e.categories),
		"recurring_rules", len(rules),
		"seeded_defaults", seeded,
		"materialized", created)
	return nil
}

// loadCollection fetches and decodes one document. A store failure or
// malformed payload is logged and degrades to an empty collection; it
// never propagates. Context cancellation does.
func loadCollection[T any](ctx context.Context, st store.Store, logger *slog.Logger, key string) ([]T, error) {
	data, err := st.Load(ctx, key)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.ErrorContext(ctx, "load failed, starting empty",
			log.FieldOperation, log.OpLoad, log.FieldKey, key, log.FieldError, err)
		return nil, nil
	}
	if len(data) == 0 {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		logger.ErrorContext(ctx, "malformed document, starting empty",
			log.FieldOperation, log.OpLoad, log.FieldKey, key, log.FieldError, err)
		return nil, nil
	}
	return out, nil
}

// Loading reports whether the initial load is still in progress.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Transactions returns a snapshot copy in newest-first order.
func (e *Engine) Transactions() []core.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]core.Transaction, len(e.transactions))
	copy(out, e.transactions)
	return out
}

// Categories returns a snapshot copy in user display order.
func (e *Engine) Categories() []core.Category {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]core.Category, len(e.categories))
	copy(out, e.categories)
	return out
}

// RecurringRules returns a snapshot copy.
func (e *Engine) RecurringRules() []core.RecurringRule {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]core.RecurringRule, len(e.rules))
	copy(out, e.rules)
	return out
}

// CategoryByID looks up a category. The second return distinguishes a
// dangling reference from a hit.
func (e *Engine) CategoryByID(id string) (core.Category, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.categories {
		if c.ID == id {
			return c, true
		}
	}
	return core.Category{}, false
}

// CategoryOrUnknown resolves id for display, degrading dangling
// references to the unknown-category fallback instead of an error.
func (e *Engine) CategoryOrUnknown(id string) core.Category {
	if c, ok := e.CategoryByID(id); ok {
		return c
	}
	return core.UnknownCategory
}

// Flush blocks until every queued write has been handed to the store.
func (e *Engine) Flush() {
	e.writer.waitIdle()
}

// Close flushes pending writes and stops the background writer. It
// does not close the store; the owner that opened it does.
func (e *Engine) Close() error {
	e.writer.close()
	return nil
}
