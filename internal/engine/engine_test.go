package engine

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneybook/internal/core"
	"moneybook/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEngine builds a loaded engine over st with a pinned clock.
func testEngine(t *testing.T, st store.Store, now func() time.Time) *Engine {
	t.Helper()
	opts := []Option{WithLogger(discardLogger())}
	if now != nil {
		opts = append(opts, WithClock(now))
	}
	e := New(st, opts...)
	t.Cleanup(func() { e.Close() })
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return e
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.Local)
	}
}

func draft(amount, typ, categoryID, date, note string) core.TransactionDraft {
	return core.TransactionDraft{
		Amount:     decimal.RequireFromString(amount),
		Type:       core.TransactionType(typ),
		CategoryID: categoryID,
		Note:       note,
		Date:       core.Date(date),
	}
}

func TestLoadFirstRunSeedsDefaults(t *testing.T) {
	e := testEngine(t, store.NewMemoryStore(), nil)

	if e.Loading() {
		t.Fatal("engine still loading after Load returned")
	}
	if got := len(e.Transactions()); got != 0 {
		t.Fatalf("expected no transactions on first run, got %d", got)
	}
	if got := len(e.RecurringRules()); got != 0 {
		t.Fatalf("expected no rules on first run, got %d", got)
	}
	cats := e.Categories()
	want := core.DefaultCategories()
	if len(cats) != len(want) {
		t.Fatalf("expected %d seeded categories, got %d", len(want), len(cats))
	}
	for i := range cats {
		if cats[i] != want[i] {
			t.Fatalf("category %d = %+v, want %+v", i, cats[i], want[i])
		}
	}
}

func TestLoadRoundTrip(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	clock := fixedClock(2024, time.March, 14)
	e1 := testEngine(t, st, clock)
	tx1, _ := e1.AddTransaction(ctx, draft("120.5", "EXPENSE", "exp_food", "2024-03-05", "lunch"))
	tx2, _ := e1.AddTransaction(ctx, draft("55", "EXPENSE", "exp_transport", "2024-03-06", ""))
	rule, ok := e1.AddRecurringRule(ctx, core.RuleDraft{
		Amount:     decimal.NewFromInt(1000),
		Type:       core.Income,
		CategoryID: "inc_salary",
		Note:       "pay",
		DayOfMonth: 28, // still ahead of the pinned "today", so nothing materializes
	})
	if !ok {
		t.Fatal("rule rejected")
	}
	e1.Flush()

	e2 := testEngine(t, st, clock)
	txs := e2.Transactions()
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions after reload, got %d", len(txs))
	}
	// Content and newest-first order survive the round trip.
	if txs[0].ID != tx2.ID || txs[1].ID != tx1.ID {
		t.Fatalf("reloaded order wrong: %+v", txs)
	}
	if !txs[1].Amount.Equal(decimal.RequireFromString("120.5")) {
		t.Fatalf("amount lost precision: %s", txs[1].Amount)
	}
	if txs[1].Note != "lunch" || txs[1].Date != "2024-03-05" {
		t.Fatalf("transaction content lost: %+v", txs[1])
	}

	rules := e2.RecurringRules()
	if len(rules) != 1 || rules[0].ID != rule.ID || rules[0].Frequency != core.Monthly {
		t.Fatalf("reloaded rules wrong: %+v", rules)
	}

	// A reload must not re-materialize what the first engine already did.
	before := len(e2.Transactions())
	e2.Materialize(ctx)
	if got := len(e2.Transactions()); got != before {
		t.Fatalf("reload materialized duplicates: %d -> %d", before, got)
	}
}

func TestLoadMalformedDocumentFallsBackToDefaults(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	if err := st.Save(ctx, store.KeyTransactions, []byte(`{"not":`)); err != nil {
		t.Fatal(err)
	}
	if err := st.Save(ctx, store.KeyCategories, []byte(`garbage`)); err != nil {
		t.Fatal(err)
	}

	e := testEngine(t, st, nil)
	if got := len(e.Transactions()); got != 0 {
		t.Fatalf("malformed transactions should load empty, got %d", got)
	}
	if got := len(e.Categories()); got != len(core.DefaultCategories()) {
		t.Fatalf("malformed categories should reseed defaults, got %d", got)
	}
}

func TestPersistGatedUntilLoadCompletes(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	e := New(st, WithLogger(discardLogger()))
	t.Cleanup(func() { e.Close() })

	e.AddTransaction(ctx, draft("10", "EXPENSE", "exp_food", "2024-03-05", ""))
	e.Flush()

	data, err := st.Load(ctx, store.KeyTransactions)
	if err != nil {
		t.Fatal(err)
	}
	if data != nil {
		t.Fatalf("write before load completion must be gated, store has %s", data)
	}
}

func TestPersistedDocumentIsArray(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	e := testEngine(t, st, nil)
	tx, _ := e.AddTransaction(ctx, draft("120.5", "EXPENSE", "exp_food", "2024-03-05", "lunch"))
	e.DeleteTransaction(ctx, tx.ID)
	e.Flush()

	data, err := st.Load(ctx, store.KeyTransactions)
	if err != nil {
		t.Fatal(err)
	}
	var decoded []core.Transaction
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("persisted document is not a JSON array: %s", data)
	}
	if string(data) == "null" {
		t.Fatal("empty collection must persist as [], not null")
	}
}

func TestCategoryLookup(t *testing.T) {
	e := testEngine(t, store.NewMemoryStore(), nil)

	if c, ok := e.CategoryByID("exp_food"); !ok || c.ID != "exp_food" {
		t.Fatalf("CategoryByID(exp_food) = %+v, %v", c, ok)
	}
	if _, ok := e.CategoryByID("nope"); ok {
		t.Fatal("expected miss for unknown id")
	}
	if got := e.CategoryOrUnknown("nope"); got != core.UnknownCategory {
		t.Fatalf("CategoryOrUnknown = %+v, want fallback", got)
	}
}
