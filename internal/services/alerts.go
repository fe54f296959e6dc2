package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/catalintache/hackathon-2025/internal/core"
)

// AlertGenerator compares the month's per-category spend against the
// configured budget table. Alerts come out in the table's configured order,
// not by spend magnitude, and only for categories the table names. Callers
// should only evaluate the current calendar month; alerts for past months
// are not meaningful.
type AlertGenerator struct {
	summary  *SummaryService
	budgets  []core.CategoryBudget
	notifier AlertNotifier
}

// NewAlertGenerator builds a generator over the given budget table. The
// notifier may be nil; alerts are then only recorded to the log.
func NewAlertGenerator(summary *SummaryService, budgets []core.CategoryBudget, notifier AlertNotifier) *AlertGenerator {
	return &AlertGenerator{
		summary:  summary,
		budgets:  budgets,
		notifier: notifier,
	}
}

// Generate returns one alert message per over-budget category. Each triggered
// alert is also recorded as a warning in the operational log, and published
// to the notifier when one is configured.
func (g *AlertGenerator) Generate(ctx context.Context, user core.User, year, month int) ([]string, error) {
	totals, err := g.summary.ComputePerCategoryTotals(ctx, user, year, month)
	if err != nil {
		return nil, fmt.Errorf("per-category totals for alerts: %w", err)
	}

	var alerts []string
	for _, b := range g.budgets {
		spent := totals[b.Category].Value
		if spent <= b.Ceiling {
			continue
		}

		over := spent - b.Ceiling
		msg := fmt.Sprintf("⚠ %s budget exceeded by %s €", b.Category, core.FormatEuros(over))
		alerts = append(alerts, msg)

		slog.WarnContext(ctx, msg,
			"user_id", user.ID,
			"category", b.Category,
			"spent", spent,
			"budget", b.Ceiling)

		if g.notifier != nil {
			alert := BudgetAlert{
				UserID:   user.ID,
				Year:     year,
				Month:    month,
				Category: b.Category,
				Spent:    spent,
				Budget:   b.Ceiling,
				Message:  msg,
			}
			if err := g.notifier.PublishBudgetAlert(ctx, alert); err != nil {
				// The alert is already logged; don't fail the evaluation
				slog.ErrorContext(ctx, "Failed to publish budget alert",
					"category", b.Category, "error", err)
			}
		}
	}

	return alerts, nil
}
