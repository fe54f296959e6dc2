package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// User identifies the owner of a set of expenses. The engine never reads
	// ambient session state; callers pass the user explicitly.
	User struct {
		ID int64
	}

	Money struct {
		Cents int64
	}

	// Expense is an immutable record value. The store's Upsert returns a new
	// Expense with the generated ID instead of mutating its argument.
	Expense struct {
		ID          int64 // zero until persisted
		UserID      int64
		Date        time.Time
		Category    string
		Amount      Money
		Description string
	}

	// CategoryBudget pairs a category with its configured spend ceiling in
	// euros. Budgets are thresholds, not ledger values, so float is fine here.
	CategoryBudget struct {
		Category string
		Ceiling  float64
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrMissingOwner     = errors.New("expense has no owner")
)

// Categories is the fixed set of expense categories, in display order.
// Matching is exact: "Groceries" is not "groceries".
var Categories = []string{
	"groceries",
	"utilities",
	"transport",
	"entertainment",
	"housing",
	"health",
	"other",
}

// ValidCategory reports whether name belongs to the known category set.
func ValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if e.UserID == 0 {
		return ErrMissingOwner
	}
	if e.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !ValidCategory(e.Category) {
		return ErrUnknownCategory
	}
	return nil
}

// MonthRange returns the inclusive [first-day 00:00:00, last-day 23:59:59]
// bounds of a calendar month. Day zero of the following month resolves to the
// month's actual last day, so leap years come out right.
func MonthRange(year, month int) (from, to time.Time) {
	from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	to = time.Date(year, time.Month(month), lastDay, 23, 59, 59, 0, time.UTC)
	return from, to
}
