package engine

import (
	"context"
	"time"

	"moneybook/internal/core"
	"moneybook/internal/log"
	"moneybook/internal/store"
)

// Materialize runs one materialization pass against the current clock
// and returns how many transactions it synthesized. The pass is
// idempotent: re-running it with unchanged rules and an unchanged
// "today" creates nothing.
func (e *Engine) Materialize(ctx context.Context) int {
	e.mu.Lock()
	created := e.materializeLocked()
	e.mu.Unlock()

	if created > 0 {
		e.logger.InfoContext(ctx, "materialization pass complete",
			log.FieldOperation, log.OpMaterialize, log.FieldCount, created)
	}
	return created
}

// RunMaterializer re-runs the pass on a fixed interval until ctx is
// cancelled. Long-lived hosts use this so a rule whose day arrives
// while the process is up takes effect without a restart.
func (e *Engine) RunMaterializer(ctx context.Context, interval time.Duration) {
	logger := log.WithComponent(e.logger, log.ComponentRecurring)
	logger.InfoContext(ctx, "materializer running", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("materializer stopped")
			return
		case <-ticker.C:
			e.Materialize(ctx)
		}
	}
}

// materializeLocked converts due rules into concrete transactions for
// the current month, exactly once per rule per month. Callers hold
// e.mu and must have completed (or be finishing) the initial load.
//
// A rule's day beyond the current month's length clamps to the last
// day of the month, so a day-31 rule still fires in February.
//
// The already-materialized check is field-based: a transaction with
// the same date, category, amount and note counts as this month's
// materialization. There is no persisted rule-to-transaction link, so
// editing a rule's amount or note mid-month makes the check miss and
// a second transaction appear; a known trade-off for a simpler data
// model.
func (e *Engine) materializeLocked() int {
	if e.loading {
		return 0
	}

	now := e.now()
	year, month, day := now.Date()
	last := core.LastDayOfMonth(year, month)

	var batch []core.Transaction
	for _, r := range e.rules {
		target := r.DayOfMonth
		if target > last {
			target = last
		}
		if day < target {
			// Not yet due this month.
			continue
		}
		date := core.NewDate(year, int(month), target)
		if e.alreadyMaterializedLocked(r, date) {
			continue
		}
		batch = append(batch, core.Transaction{
			ID:          newRecurringID(),
			Amount:      r.Amount,
			Type:        r.Type,
			CategoryID:  r.CategoryID,
			Note:        r.Note,
			Date:        date,
			IsRecurring: true,
		})
	}
	if len(batch) == 0 {
		return 0
	}

	// One batch, one mutation, one persist; newest-first order within
	// the batch is preserved.
	e.transactions = append(batch, e.transactions...)
	e.overviews.Purge()
	e.persistLocked(store.KeyTransactions)
	return len(batch)
}

func (e *Engine) alreadyMaterializedLocked(r core.RecurringRule, date core.Date) bool {
	for _, tx := range e.transactions {
		if tx.Date == date &&
			tx.CategoryID == r.CategoryID &&
			tx.Note == r.Note &&
			tx.Amount.Equal(r.Amount) {
			return true
		}
	}
	return false
}
