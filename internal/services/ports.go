package services

import (
	"context"
	"time"

	"github.com/catalintache/hackathon-2025/internal/core"
)

// Ports for outbound collaborators.
type (
	// ExpenseStore is the persistence contract the engine consumes. The
	// SQLite repository implements it; tests substitute an in-memory fake.
	ExpenseStore interface {
		// FindInRange returns the user's expenses with date in [from, to],
		// newest first.
		FindInRange(ctx context.Context, userID int64, from, to time.Time) ([]core.Expense, error)

		// FindPageInRange is FindInRange restricted to one page.
		FindPageInRange(ctx context.Context, userID int64, from, to time.Time, offset, limit int) ([]core.Expense, error)

		// CountInRange counts the user's expenses with date in [from, to].
		CountInRange(ctx context.Context, userID int64, from, to time.Time) (int64, error)

		// ExistsExact reports whether an identical expense is already stored.
		ExistsExact(ctx context.Context, userID int64, date time.Time, description string, amountCents int64, category string) (bool, error)

		// Upsert persists the expense and returns it with its id assigned.
		Upsert(ctx context.Context, e core.Expense) (core.Expense, error)

		Delete(ctx context.Context, id int64) error

		Find(ctx context.Context, id int64) (core.Expense, error)

		// ListExpenditureYears returns the distinct years with expenses,
		// newest first.
		ListExpenditureYears(ctx context.Context, userID int64) ([]int, error)
	}

	// AlertNotifier forwards triggered budget alerts to an out-of-process
	// recorder. Optional: a nil notifier means alerts are only logged.
	AlertNotifier interface {
		PublishBudgetAlert(ctx context.Context, alert BudgetAlert) error
	}
)

// BudgetAlert describes one category over its configured ceiling.
type BudgetAlert struct {
	UserID   int64
	Year     int
	Month    int
	Category string
	Spent    float64
	Budget   float64
	Message  string
}
