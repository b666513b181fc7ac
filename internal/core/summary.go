package core

import "github.com/shopspring/decimal"

// CategoryAmount is an amount aggregated under one category.
type CategoryAmount struct {
	CategoryID string
	Type       TransactionType
	Total      decimal.Decimal
}

// MonthOverview is a derived summary for a specific year+month: totals
// per direction plus a per-category breakdown. It is rebuilt from the
// transaction collection on demand and never persisted.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Income     decimal.Decimal
	Expense    decimal.Decimal
	ByCategory []CategoryAmount
}

// RecurringTotals is the monthly amount committed via recurring rules,
// split by direction.
type RecurringTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}
