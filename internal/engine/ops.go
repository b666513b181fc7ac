package engine

import (
	"context"

	"moneybook/internal/core"
	"moneybook/internal/log"
	"moneybook/internal/store"
)

// AddTransaction validates the draft, assigns a fresh id and prepends
// the transaction (newest-first order). An invalid draft is declined
// silently: nothing is stored and ok is false. Nothing here ever
// surfaces an error to the caller.
func (e *Engine) AddTransaction(ctx context.Context, draft core.TransactionDraft) (core.Transaction, bool) {
	if err := draft.Validate(); err != nil {
		e.logger.DebugContext(ctx, "transaction rejected",
			log.FieldOperation, log.OpAdd, log.FieldError, err)
		return core.Transaction{}, false
	}

	tx := core.Transaction{
		ID:         newID(),
		Amount:     draft.Amount,
		Type:       draft.Type,
		CategoryID: draft.CategoryID,
		Note:       draft.Note,
		Date:       draft.Date,
	}

	e.mu.Lock()
	e.transactions = append([]core.Transaction{tx}, e.transactions...)
	e.overviews.Purge()
	e.persistLocked(store.KeyTransactions)
	e.mu.Unlock()

	e.logger.InfoContext(ctx, "transaction added",
		log.FieldTransactionID, tx.ID,
		log.FieldDate, tx.Date,
		log.FieldAmount, tx.Amount,
		log.FieldCategoryID, tx.CategoryID)
	return tx, true
}

// DeleteTransaction removes the transaction with the given id. An
// absent id is a no-op, not an error. Relative order of the remaining
// transactions is untouched.
func (e *Engine) DeleteTransaction(ctx context.Context, id string) {
	e.mu.Lock()
	kept := e.transactions[:0]
	removed := false
	for _, tx := range e.transactions {
		if tx.ID == id {
			removed = true
			continue
		}
		kept = append(kept, tx)
	}
	if removed {
		e.transactions = kept
		e.overviews.Purge()
		e.persistLocked(store.KeyTransactions)
	}
	e.mu.Unlock()

	if removed {
		e.logger.InfoContext(ctx, "transaction deleted", log.FieldTransactionID, id)
	}
}

// AddCategory appends a custom category at the end of the display
// order. An invalid draft is declined silently.
func (e *Engine) AddCategory(ctx context.Context, draft core.CategoryDraft) (core.Category, bool) {
	if err := draft.Validate(); err != nil {
		e.logger.DebugContext(ctx, "category rejected",
			log.FieldOperation, log.OpAdd, log.FieldError, err)
		return core.Category{}, false
	}

	cat := core.Category{
		ID:    newCategoryID(),
		Name:  draft.Name,
		Icon:  draft.Icon,
		Type:  draft.Type,
		Color: draft.Color,
	}

	e.mu.Lock()
	e.categories = append(e.categories, cat)
	e.persistLocked(store.KeyCategories)
	e.mu.Unlock()

	e.logger.InfoContext(ctx, "category added",
		log.FieldCategoryID, cat.ID, "name", cat.Name, "type", cat.Type)
	return cat, true
}

// UpdateCategory applies the patch to the category with the given id.
// The type is immutable and not part of the patch. Returns false when
// the id is unknown or the patched name would be empty.
func (e *Engine) UpdateCategory(ctx context.Context, id string, patch core.CategoryPatch) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.categories {
		if e.categories[i].ID != id {
			continue
		}
		updated := e.categories[i]
		if patch.Name != nil {
			updated.Name = *patch.Name
		}
		if patch.Icon != nil {
			updated.Icon = *patch.Icon
		}
		if patch.Color != nil {
			updated.Color = *patch.Color
		}
		if err := updated.Validate(); err != nil {
			e.logger.DebugContext(ctx, "category update rejected",
				log.FieldCategoryID, id, log.FieldError, err)
			return false
		}
		e.categories[i] = updated
		e.persistLocked(store.KeyCategories)
		e.logger.InfoContext(ctx, "category updated", log.FieldCategoryID, id)
		return true
	}
	return false
}

// DeleteCategory removes the category with the given id. There is no
// cascade: transactions and rules keep their categoryId and degrade to
// the unknown-category display state.
func (e *Engine) DeleteCategory(ctx context.Context, id string) {
	e.mu.Lock()
	kept := e.categories[:0]
	removed := false
	for _, c := range e.categories {
		if c.ID == id {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if removed {
		e.categories = kept
		e.persistLocked(store.KeyCategories)
	}
	e.mu.Unlock()

	if removed {
		e.logger.InfoContext(ctx, "category deleted", log.FieldCategoryID, id)
	}
}

// ReorderCategories replaces the whole collection order atomically.
// The caller supplies the full reordered list; the engine only checks
// that it is a permutation of the current set and otherwise declines.
func (e *Engine) ReorderCategories(ctx context.Context, ordered []core.Category) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !samePermutation(e.categories, ordered) {
		e.logger.WarnContext(ctx, "reorder rejected: not a permutation of the current set",
			log.FieldOperation, log.OpReorder,
			"current", len(e.categories), "proposed", len(ordered))
		return false
	}

	replacement := make([]core.Category, len(ordered))
	copy(replacement, ordered)
	e.categories = replacement
	e.persistLocked(store.KeyCategories)
	e.logger.InfoContext(ctx, "categories reordered", log.FieldCount, len(ordered))
	return true
}

// samePermutation reports whether both slices hold exactly the same
// category ids, each unique.
func samePermutation(current, proposed []core.Category) bool {
	if len(current) != len(proposed) {
		return false
	}
	ids := make(map[string]struct{}, len(current))
	for _, c := range current {
		ids[c.ID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(proposed))
	for _, c := range proposed {
		if _, ok := ids[c.ID]; !ok {
			return false
		}
		if _, dup := seen[c.ID]; dup {
			return false
		}
		seen[c.ID] = struct{}{}
	}
	return true
}

// AddRecurringRule stores a new monthly rule and immediately runs a
// materialization pass, so a rule whose day has already passed this
// month takes effect without waiting for the next cycle.
func (e *Engine) AddRecurringRule(ctx context.Context, draft core.RuleDraft) (core.RecurringRule, bool) {
	if err := draft.Validate(); err != nil {
		e.logger.DebugContext(ctx, "recurring rule rejected",
			log.FieldOperation, log.OpAdd, log.FieldError, err)
		return core.RecurringRule{}, false
	}

	rule := core.RecurringRule{
		ID:         newID(),
		Amount:     draft.Amount,
		Type:       draft.Type,
		CategoryID: draft.CategoryID,
		Note:       draft.Note,
		DayOfMonth: draft.DayOfMonth,
		Frequency:  core.Monthly,
	}

	e.mu.Lock()
	e.rules = append(e.rules, rule)
	e.persistLocked(store.KeyRecurringRules)
	e.materializeLocked()
	e.mu.Unlock()

	e.logger.InfoContext(ctx, "recurring rule added",
		log.FieldRuleID, rule.ID,
		"day_of_month", rule.DayOfMonth,
		log.FieldAmount, rule.Amount)
	return rule, true
}

// UpdateRecurringRule applies the patch to the rule with the given id
// and re-runs the materializer. Note that the idempotence check is
// field-based, so editing amount or note after this month's
// materialization synthesizes a second transaction for the month.
func (e *Engine) UpdateRecurringRule(ctx context.Context, id string, patch core.RulePatch) bool {
	e.mu.Lock()

	updated := false
	for i := range e.rules {
		if e.rules[i].ID != id {
			continue
		}
		r := e.rules[i]
		if patch.Amount != nil {
			r.Amount = *patch.Amount
		}
		if patch.CategoryID != nil {
			r.CategoryID = *patch.CategoryID
		}
		if patch.Note != nil {
			r.Note = *patch.Note
		}
		if patch.DayOfMonth != nil {
			r.DayOfMonth = *patch.DayOfMonth
		}
		if !r.Amount.IsPositive() || r.DayOfMonth < 1 || r.DayOfMonth > 31 {
			e.mu.Unlock()
			e.logger.DebugContext(ctx, "recurring rule update rejected", log.FieldRuleID, id)
			return false
		}
		e.rules[i] = r
		updated = true
		break
	}
	if updated {
		e.persistLocked(store.KeyRecurringRules)
		e.materializeLocked()
	}
	e.mu.Unlock()

	if updated {
		e.logger.InfoContext(ctx, "recurring rule updated", log.FieldRuleID, id)
	}
	return updated
}

// DeleteRecurringRule removes the rule with the given id. Transactions
// it already materialized stay untouched.
func (e *Engine) DeleteRecurringRule(ctx context.Context, id string) {
	e.mu.Lock()
	kept := e.rules[:0]
	removed := false
	for _, r := range e.rules {
		if r.ID == id {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if removed {
		e.rules = kept
		e.persistLocked(store.KeyRecurringRules)
	}
	e.mu.Unlock()

	if removed {
		e.logger.InfoContext(ctx, "recurring rule deleted", log.FieldRuleID, id)
	}
}
