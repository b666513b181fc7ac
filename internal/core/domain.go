package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Expense TransactionType = "EXPENSE"
	Income  TransactionType = "INCOME"
)

// Monthly is the only supported recurrence cadence.
const Monthly Frequency = "MONTHLY"

type (
	// TransactionType classifies money movement direction.
	TransactionType string

	// Frequency is the cadence of a recurring rule.
	Frequency string

	// Date is a calendar day in canonical "YYYY-MM-DD" form, local time,
	// no time-of-day component. Dates are compared by string equality.
	Date string

	// Category is a user-visible transaction bucket. The order of the
	// containing slice is the user-controlled display order.
	Category struct {
		ID    string          `json:"id"`
		Name  string          `json:"name"`
		Icon  string          `json:"icon"`
		Type  TransactionType `json:"type"`
		Color string          `json:"color"`
	}

	// Transaction is a single recorded income or expense. Transactions are
	// never edited in place; correcting one means delete and re-add.
	Transaction struct {
		ID          string          `json:"id"`
		Amount      decimal.Decimal `json:"amount"`
		Type        TransactionType `json:"type"`
		CategoryID  string          `json:"categoryId"`
		Note        string          `json:"note"`
		Date        Date            `json:"date"`
		IsRecurring bool            `json:"isRecurring,omitempty"`
	}

	// RecurringRule is a standing instruction to materialize one concrete
	// transaction per calendar month on DayOfMonth.
	RecurringRule struct {
		ID         string          `json:"id"`
		Amount     decimal.Decimal `json:"amount"`
		Type       TransactionType `json:"type"`
		CategoryID string          `json:"categoryId"`
		Note       string          `json:"note"`
		DayOfMonth int             `json:"dayOfMonth"`
		Frequency  Frequency       `json:"frequency"`
	}

	// TransactionDraft is the entry-path payload for a new transaction.
	// The engine assigns the id.
	TransactionDraft struct {
		Amount     decimal.Decimal
		Type       TransactionType
		CategoryID string
		Note       string
		Date       Date
	}

	// CategoryDraft is the entry-path payload for a new custom category.
	CategoryDraft struct {
		Name  string
		Icon  string
		Type  TransactionType
		Color string
	}

	// RuleDraft is the entry-path payload for a new recurring rule.
	RuleDraft struct {
		Amount     decimal.Decimal
		Type       TransactionType
		CategoryID string
		Note       string
		DayOfMonth int
	}

	// CategoryPatch carries the user-editable category fields for an
	// update. Nil fields are left unchanged; the type is immutable.
	CategoryPatch struct {
		Name  *string
		Icon  *string
		Color *string
	}

	// RulePatch carries updatable recurring-rule fields. Nil fields are
	// left unchanged.
	RulePatch struct {
		Amount     *decimal.Decimal
		CategoryID *string
		Note       *string
		DayOfMonth *int
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidDayOfMonth = errors.New("invalid day of month")
	ErrEmptyName         = errors.New("empty category name")
	ErrEmptyCategory     = errors.New("empty category reference")
)

// Valid reports whether t is one of the two known types.
func (t TransactionType) Valid() bool {
	return t == Expense || t == Income
}

// NewDate builds a canonical zero-padded date.
func NewDate(year, month, day int) Date {
	return Date(fmt.Sprintf("%04d-%02d-%02d", year, month, day))
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format("2006-01-02"))
}

// Validate checks the canonical form, including calendar validity.
func (d Date) Validate() error {
	t, err := time.Parse("2006-01-02", string(d))
	if err != nil {
		return ErrInvalidDate
	}
	// time.Parse normalizes overflow days (2024-02-31 -> 2024-03-02),
	// so round-trip the format to reject them.
	if DateOf(t) != d {
		return ErrInvalidDate
	}
	return nil
}

// Month returns the "YYYY-MM" prefix of the date.
func (d Date) Month() string {
	if len(d) < 7 {
		return string(d)
	}
	return string(d[:7])
}

// MonthPrefix returns the "YYYY-MM" key for a year and month.
func MonthPrefix(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (d TransactionDraft) Validate() error {
	if !d.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !d.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(d.CategoryID) == "" {
		return ErrEmptyCategory
	}
	return d.Date.Validate()
}

func (d CategoryDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if !d.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (d RuleDraft) Validate() error {
	if !d.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !d.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(d.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if d.DayOfMonth < 1 || d.DayOfMonth > 31 {
		return ErrInvalidDayOfMonth
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("empty category id")
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}
