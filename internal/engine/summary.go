package engine

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"moneybook/internal/core"
)

// DailyTotal sums the amounts of all transactions whose date equals d
// exactly (string equality, no timezone arithmetic) and whose type
// matches. Zero when nothing matches. Pure read.
func (e *Engine) DailyTotal(d core.Date, typ core.TransactionType) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := decimal.Zero
	for _, tx := range e.transactions {
		if tx.Date == d && tx.Type == typ {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// TransactionsOn returns the transactions recorded on d, preserving
// newest-first order.
func (e *Engine) TransactionsOn(d core.Date) []core.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []core.Transaction
	for _, tx := range e.transactions {
		if tx.Date == d {
			out = append(out, tx)
		}
	}
	return out
}

// MonthOverview derives the income/expense totals and per-category
// breakdown for one calendar month. Results are cached until the next
// transaction mutation.
func (e *Engine) MonthOverview(year, month int) core.MonthOverview {
	key := core.MonthPrefix(year, month)
	if ov, ok := e.overviews.Get(key); ok {
		return ov
	}

	// The whole compute-and-cache step runs under the collection lock so
	// a concurrent mutation's purge cannot interleave with a stale Set.
	e.mu.Lock()
	defer e.mu.Unlock()
	ov := core.MonthOverview{
		Year:    year,
		Month:   month,
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}
	type bucket struct {
		categoryID string
		typ        core.TransactionType
	}
	totals := make(map[bucket]decimal.Decimal)
	prefix := key + "-"
	for _, tx := range e.transactions {
		if !strings.HasPrefix(string(tx.Date), prefix) {
			continue
		}
		switch tx.Type {
		case core.Income:
			ov.Income = ov.Income.Add(tx.Amount)
		case core.Expense:
			ov.Expense = ov.Expense.Add(tx.Amount)
		default:
			continue
		}
		b := bucket{categoryID: tx.CategoryID, typ: tx.Type}
		totals[b] = totals[b].Add(tx.Amount)
	}

	for b, total := range totals {
		ov.ByCategory = append(ov.ByCategory, core.CategoryAmount{
			CategoryID: b.categoryID,
			Type:       b.typ,
			Total:      total,
		})
	}
	// Largest first; ties break on id so the order is stable.
	sort.Slice(ov.ByCategory, func(i, j int) bool {
		a, b := ov.ByCategory[i], ov.ByCategory[j]
		if !a.Total.Equal(b.Total) {
			return a.Total.GreaterThan(b.Total)
		}
		return a.CategoryID < b.CategoryID
	})

	e.overviews.Set(key, ov)
	return ov
}

// RecurringTotals sums the standing monthly commitment across all
// rules, split by direction.
func (e *Engine) RecurringTotals() core.RecurringTotals {
	e.mu.Lock()
	defer e.mu.Unlock()

	t := core.RecurringTotals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, r := range e.rules {
		switch r.Type {
		case core.Income:
			t.Income = t.Income.Add(r.Amount)
		case core.Expense:
			t.Expense = t.Expense.Add(r.Amount)
		}
	}
	return t
}
