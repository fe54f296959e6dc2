package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/catalintache/hackathon-2025/internal/core"
)

// ExpensePage is one page of a month's expense listing.
type ExpensePage struct {
	Items       []core.Expense
	TotalCount  int64
	TotalPages  int
	CurrentPage int
	PageSize    int
}

// ExpenseService orchestrates single-expense operations against the store.
type ExpenseService struct {
	store ExpenseStore
}

func NewExpenseService(store ExpenseStore) *ExpenseService {
	return &ExpenseService{store: store}
}

// Create validates and persists a new expense for the user. The amount is
// given in euros and converted to cents with half-away-from-zero rounding.
func (s *ExpenseService) Create(ctx context.Context, user core.User, amount float64, description string, date time.Time, category string) (core.Expense, error) {
	if user.ID == 0 {
		return core.Expense{}, fmt.Errorf("create expense: %w", core.ErrMissingOwner)
	}

	expense := core.Expense{
		UserID:      user.ID,
		Date:        date,
		Category:    category,
		Amount:      core.Money{Cents: int64(math.Round(amount * 100))},
		Description: description,
	}
	if err := expense.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}

	saved, err := s.store.Upsert(ctx, expense)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	return saved, nil
}

// Update replaces date, category, amount and description of an existing
// expense in one atomic write and returns the updated value.
func (s *ExpenseService) Update(ctx context.Context, expense core.Expense, amount float64, description string, date time.Time, category string) (core.Expense, error) {
	if expense.ID == 0 {
		return core.Expense{}, fmt.Errorf("update expense: expense not persisted yet")
	}

	expense.Date = date
	expense.Category = category
	expense.Amount = core.Money{Cents: int64(math.Round(amount * 100))}
	expense.Description = description

	if err := expense.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}

	saved, err := s.store.Upsert(ctx, expense)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	return saved, nil
}

// Find loads an expense by id, for the caller's ownership checks.
func (s *ExpenseService) Find(ctx context.Context, id int64) (core.Expense, error) {
	return s.store.Find(ctx, id)
}

// Delete removes an expense by id. Ownership is the caller's concern.
func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// List returns one date-descending page of the user's expenses for a month.
func (s *ExpenseService) List(ctx context.Context, user core.User, year, month, page, pageSize int) (ExpensePage, error) {
	if user.ID == 0 {
		return ExpensePage{}, fmt.Errorf("list expenses: %w", core.ErrMissingOwner)
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	from, to := core.MonthRange(year, month)

	totalCount, err := s.store.CountInRange(ctx, user.ID, from, to)
	if err != nil {
		return ExpensePage{}, fmt.Errorf("count expenses: %w", err)
	}

	offset := (page - 1) * pageSize
	items, err := s.store.FindPageInRange(ctx, user.ID, from, to, offset, pageSize)
	if err != nil {
		return ExpensePage{}, fmt.Errorf("fetch expense page: %w", err)
	}

	return ExpensePage{
		Items:       items,
		TotalCount:  totalCount,
		TotalPages:  int(math.Ceil(float64(totalCount) / float64(pageSize))),
		CurrentPage: page,
		PageSize:    pageSize,
	}, nil
}

// ListExpenditureYears returns the years the user has expenses in, newest
// first, for the period selector.
func (s *ExpenseService) ListExpenditureYears(ctx context.Context, user core.User) ([]int, error) {
	if user.ID == 0 {
		return nil, fmt.Errorf("list expenditure years: %w", core.ErrMissingOwner)
	}
	years, err := s.store.ListExpenditureYears(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list expenditure years: %w", err)
	}
	return years, nil
}
