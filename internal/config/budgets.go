package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/catalintache/hackathon-2025/internal/core"
)

// DefaultCategoryBudgets is the fallback budget table used when
// CATEGORY_BUDGETS is unset or unparseable.
var DefaultCategoryBudgets = []core.CategoryBudget{
	{Category: "Groceries", Ceiling: 300.00},
	{Category: "Utilities", Ceiling: 200.00},
	{Category: "Transport", Ceiling: 500.00},
}

// LoadCategoryBudgets parses a JSON object of category -> ceiling, e.g.
// {"Groceries": 300, "Transport": 500}. Alerts are emitted in the table's
// configured order, so key order must survive parsing; a plain map would
// lose it, hence the token walk.
func LoadCategoryBudgets(raw string) []core.CategoryBudget {
	budgets, err := parseCategoryBudgets(raw)
	if err != nil || len(budgets) == 0 {
		return append([]core.CategoryBudget(nil), DefaultCategoryBudgets...)
	}
	return budgets
}

func parseCategoryBudgets(raw string) ([]core.CategoryBudget, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read budgets JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("budgets JSON must be an object, got %v", tok)
	}

	var budgets []core.CategoryBudget
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read budget category: %w", err)
		}
		category, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("budget category must be a string, got %v", keyTok)
		}

		var ceiling float64
		if err := dec.Decode(&ceiling); err != nil {
			return nil, fmt.Errorf("read ceiling for category %q: %w", category, err)
		}

		budgets = append(budgets, core.CategoryBudget{Category: category, Ceiling: ceiling})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read budgets JSON close: %w", err)
	}

	return budgets, nil
}
