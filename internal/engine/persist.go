package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	"moneybook/internal/log"
	"moneybook/internal/store"
)

// persistLocked marshals the collection behind key and hands it to the
// background writer. Callers hold e.mu. While the initial load is in
// progress persistence is gated off, so startup can never clobber
// durable state with empty defaults.
func (e *Engine) persistLocked(key string) {
	if e.loading {
		e.logger.Debug("persist skipped until initial load completes", log.FieldKey, key)
		return
	}

	var v any
	switch key {
	case store.KeyTransactions:
		v = e.transactions
	case store.KeyCategories:
		v = e.categories
	case store.KeyRecurringRules:
		v = e.rules
	default:
		return
	}
	data, err := marshalCollection(v)
	if err != nil {
		e.logger.Error("encode failed, dropping write", log.FieldKey, key, log.FieldError, err)
		return
	}
	e.writer.enqueue(key, data)
}

func marshalCollection(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	// A nil slice marshals to null; the persisted form is always an array.
	if string(data) == "null" {
		return []byte("[]"), nil
	}
	return data, nil
}

// writer serializes durability writes. It coalesces queued documents
// per key (only the latest snapshot for a key is ever written) and
// applies them in order, so a burst of mutations costs one write per
// key instead of one per mutation. A failed save is logged and
// dropped; the in-memory state it came from is already committed.
type writer struct {
	store  store.Store
	logger *slog.Logger

	mu      sync.Mutex
	idle    *sync.Cond
	pending map[string][]byte
	saving  bool
	closed  bool

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
}

func newWriter(st store.Store, logger *slog.Logger) *writer {
	w := &writer{
		store:   st,
		logger:  logger,
		pending: make(map[string][]byte),
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	w.idle = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// enqueue records the latest snapshot for key. It never blocks the
// caller beyond the map assignment.
func (w *writer) enqueue(key string, data []byte) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pending[key] = data
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.flush()
		case <-w.quit:
			w.flush()
			return
		}
	}
}

func (w *writer) flush() {
	for {
		w.mu.Lock()
		if len(w.pending) == 0 {
			w.saving = false
			w.idle.Broadcast()
			w.mu.Unlock()
			return
		}
		batch := w.pending
		w.pending = make(map[string][]byte)
		w.saving = true
		w.mu.Unlock()

		keys := make([]string, 0, len(batch))
		for k := range batch {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			if err := w.store.Save(context.Background(), key, batch[key]); err != nil {
				w.logger.Error("save failed, dropping write",
					log.FieldOperation, log.OpSave, log.FieldKey, key, log.FieldError, err)
			}
		}
	}
}

// waitIdle blocks until no write is pending or in flight.
func (w *writer) waitIdle() {
	w.mu.Lock()
	for len(w.pending) > 0 || w.saving {
		w.idle.Wait()
	}
	w.mu.Unlock()
}

// close flushes outstanding writes and stops the goroutine. Safe to
// call once.
func (w *writer) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	w.mu.Unlock()

	close(w.quit)
	<-w.done
}
