// Package services holds the analytics engine: monthly aggregation, budget
// alert evaluation, CSV import and the expense CRUD orchestration on top of
// the expense store.
package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/catalintache/hackathon-2025/internal/core"
)

// CategoryTotal is one category's slice of a month: the summed value in euros
// and its integer percentage share of the month's grand total.
type CategoryTotal struct {
	Value      float64
	Percentage int
}

// MonthOverview bundles the three monthly computations for the dashboard.
type MonthOverview struct {
	Total    float64
	Totals   map[string]CategoryTotal
	Averages map[string]float64
}

// SummaryService computes monthly expenditure aggregates. All summation is
// done in integer cents; euros appear only at the edges.
type SummaryService struct {
	store ExpenseStore
}

func NewSummaryService(store ExpenseStore) *SummaryService {
	return &SummaryService{store: store}
}

// ComputeTotalExpenditure sums the user's expenses for the month and returns
// the total in euros.
func (s *SummaryService) ComputeTotalExpenditure(ctx context.Context, user core.User, year, month int) (float64, error) {
	mustOwnIdentity(user, "compute total expenditure")

	items, err := s.monthExpenses(ctx, user, year, month)
	if err != nil {
		return 0, err
	}

	var sumCents int64
	for _, e := range items {
		sumCents += e.Amount.Cents
	}

	return float64(sumCents) / 100.0, nil
}

// ComputePerCategoryTotals groups the month's expenses by category. The
// percentage share is floor((categoryCents / grandTotalCents) * 100); floor,
// not round, so the shares can under-count but never exceed 100 in sum. A
// zero grand total yields zero percentages. Categories without expenses are
// absent from the map.
func (s *SummaryService) ComputePerCategoryTotals(ctx context.Context, user core.User, year, month int) (map[string]CategoryTotal, error) {
	mustOwnIdentity(user, "compute per-category totals")

	items, err := s.monthExpenses(ctx, user, year, month)
	if err != nil {
		return nil, err
	}

	byCat := make(map[string]int64)
	var grandTotal int64
	for _, e := range items {
		byCat[e.Category] += e.Amount.Cents
		grandTotal += e.Amount.Cents
	}

	out := make(map[string]CategoryTotal, len(byCat))
	for cat, sumCents := range byCat {
		perc := 0
		if grandTotal > 0 {
			// integer division floors for non-negative operands
			perc = int(sumCents * 100 / grandTotal)
		}
		out[cat] = CategoryTotal{
			Value:      float64(sumCents) / 100.0,
			Percentage: perc,
		}
	}

	return out, nil
}

// ComputePerCategoryAverages returns the per-category mean expense in euros.
// The mean is floored in cents before the euro conversion: entries of 1000,
// 2000 and 1999 cents average to floor(4999/3) = 1666 cents = 16.66.
func (s *SummaryService) ComputePerCategoryAverages(ctx context.Context, user core.User, year, month int) (map[string]float64, error) {
	mustOwnIdentity(user, "compute per-category averages")

	items, err := s.monthExpenses(ctx, user, year, month)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		sumCents int64
		count    int64
	}
	byCat := make(map[string]*bucket)
	for _, e := range items {
		b, ok := byCat[e.Category]
		if !ok {
			b = &bucket{}
			byCat[e.Category] = b
		}
		b.sumCents += e.Amount.Cents
		b.count++
	}

	out := make(map[string]float64, len(byCat))
	for cat, b := range byCat {
		avgCents := b.sumCents / b.count
		out[cat] = float64(avgCents) / 100.0
	}

	return out, nil
}

// MonthOverview runs the three monthly computations concurrently. Each one
// fetches and groups independently, so the results are identical to calling
// them in sequence.
func (s *SummaryService) MonthOverview(ctx context.Context, user core.User, year, month int) (MonthOverview, error) {
	mustOwnIdentity(user, "compute month overview")

	var overview MonthOverview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.ComputeTotalExpenditure(gctx, user, year, month)
		if err != nil {
			return fmt.Errorf("total expenditure: %w", err)
		}
		overview.Total = total
		return nil
	})
	g.Go(func() error {
		totals, err := s.ComputePerCategoryTotals(gctx, user, year, month)
		if err != nil {
			return fmt.Errorf("per-category totals: %w", err)
		}
		overview.Totals = totals
		return nil
	})
	g.Go(func() error {
		averages, err := s.ComputePerCategoryAverages(gctx, user, year, month)
		if err != nil {
			return fmt.Errorf("per-category averages: %w", err)
		}
		overview.Averages = averages
		return nil
	})

	if err := g.Wait(); err != nil {
		return MonthOverview{}, err
	}

	return overview, nil
}

func (s *SummaryService) monthExpenses(ctx context.Context, user core.User, year, month int) ([]core.Expense, error) {
	from, to := core.MonthRange(year, month)
	items, err := s.store.FindInRange(ctx, user.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch expenses for %04d-%02d: %w", year, month, err)
	}
	return items, nil
}

// mustOwnIdentity guards the aggregation entry points against callers that
// pass a user without an id. That is API misuse, not a runtime condition.
func mustOwnIdentity(user core.User, op string) {
	if user.ID == 0 {
		panic(fmt.Sprintf("%s: user without identity", op))
	}
}
