package config

import (
	"testing"

	"github.com/catalintache/hackathon-2025/internal/core"
)

func TestLoadCategoryBudgetsPreservesOrder(t *testing.T) {
	got := LoadCategoryBudgets(`{"Transport": 500, "Groceries": 300.50, "Utilities": 200}`)

	want := []core.CategoryBudget{
		{Category: "Transport", Ceiling: 500},
		{Category: "Groceries", Ceiling: 300.50},
		{Category: "Utilities", Ceiling: 200},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d budgets, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("budgets[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLoadCategoryBudgetsFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "whitespace", raw: "   "},
		{name: "invalid JSON", raw: `{"Groceries": `},
		{name: "not an object", raw: `[300, 200]`},
		{name: "non-numeric ceiling", raw: `{"Groceries": "lots"}`},
		{name: "empty object", raw: `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoadCategoryBudgets(tt.raw)
			if len(got) != len(DefaultCategoryBudgets) {
				t.Fatalf("got %v, want defaults", got)
			}
			for i := range DefaultCategoryBudgets {
				if got[i] != DefaultCategoryBudgets[i] {
					t.Errorf("budgets[%d] = %+v, want %+v", i, got[i], DefaultCategoryBudgets[i])
				}
			}
		})
	}
}

func TestLoadCategoryBudgetsReturnsCopyOfDefaults(t *testing.T) {
	got := LoadCategoryBudgets("")
	got[0].Ceiling = 1

	if DefaultCategoryBudgets[0].Ceiling == 1 {
		t.Error("fallback must not alias the default table")
	}
}
