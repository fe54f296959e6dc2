package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/catalintache/hackathon-2025/internal/core"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "expenses.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestUpsertAndFind(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	e := core.Expense{
		UserID:      1,
		Date:        time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Category:    "groceries",
		Amount:      core.Money{Cents: 1234},
		Description: "weekly shop",
	}

	saved, err := repo.Upsert(ctx, e)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if saved.ID == 0 {
		t.Fatal("insert must assign an id")
	}

	got, err := repo.Find(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.Description != "weekly shop" || got.Amount.Cents != 1234 || got.Category != "groceries" {
		t.Errorf("got %+v", got)
	}
	if !got.Date.Equal(e.Date) {
		t.Errorf("date roundtrip: got %v, want %v", got.Date, e.Date)
	}

	t.Run("update replaces fields", func(t *testing.T) {
		saved.Description = "monthly shop"
		saved.Amount = core.Money{Cents: 5000}
		if _, err := repo.Upsert(ctx, saved); err != nil {
			t.Fatalf("Upsert update: %v", err)
		}

		got, err := repo.Find(ctx, saved.ID)
		if err != nil {
			t.Fatalf("Find after update: %v", err)
		}
		if got.Description != "monthly shop" || got.Amount.Cents != 5000 {
			t.Errorf("got %+v after update", got)
		}
	})
}

func TestFindNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Find(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	saved, err := repo.Upsert(ctx, core.Expense{
		UserID:      1,
		Date:        time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Category:    "other",
		Amount:      core.Money{Cents: 100},
		Description: "gone soon",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := repo.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Find(ctx, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find after delete: err = %v, want ErrNotFound", err)
	}
}

func TestRangeQueries(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seed := func(userID int64, date time.Time, cents int64, desc string) {
		t.Helper()
		_, err := repo.Upsert(ctx, core.Expense{
			UserID:      userID,
			Date:        date,
			Category:    "other",
			Amount:      core.Money{Cents: cents},
			Description: desc,
		})
		if err != nil {
			t.Fatalf("seed %s: %v", desc, err)
		}
	}

	seed(1, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 100, "first")
	seed(1, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), 200, "mid")
	seed(1, time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC), 300, "last second of month")
	seed(1, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 400, "next month")
	seed(2, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), 500, "other user")

	from, to := core.MonthRange(2024, 5)

	t.Run("FindInRange", func(t *testing.T) {
		got, err := repo.FindInRange(ctx, 1, from, to)
		if err != nil {
			t.Fatalf("FindInRange: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("got %d expenses, want 3", len(got))
		}
		// newest first
		if got[0].Description != "last second of month" || got[2].Description != "first" {
			t.Errorf("order wrong: %q ... %q", got[0].Description, got[2].Description)
		}
	})

	t.Run("CountInRange", func(t *testing.T) {
		count, err := repo.CountInRange(ctx, 1, from, to)
		if err != nil {
			t.Fatalf("CountInRange: %v", err)
		}
		if count != 3 {
			t.Errorf("count = %d, want 3", count)
		}
	})

	t.Run("FindPageInRange", func(t *testing.T) {
		page, err := repo.FindPageInRange(ctx, 1, from, to, 1, 2)
		if err != nil {
			t.Fatalf("FindPageInRange: %v", err)
		}
		if len(page) != 2 {
			t.Fatalf("got %d expenses, want 2", len(page))
		}
		if page[0].Description != "mid" {
			t.Errorf("page[0] = %q, want mid", page[0].Description)
		}
	})
}

func TestExistsExact(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	_, err := repo.Upsert(ctx, core.Expense{
		UserID:      1,
		Date:        date,
		Category:    "transport",
		Amount:      core.Money{Cents: 250},
		Description: "bus ticket",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	tests := []struct {
		name        string
		userID      int64
		date        time.Time
		description string
		cents       int64
		category    string
		want        bool
	}{
		{"exact match", 1, date, "bus ticket", 250, "transport", true},
		{"different user", 2, date, "bus ticket", 250, "transport", false},
		{"different amount", 1, date, "bus ticket", 300, "transport", false},
		{"different description", 1, date, "tram ticket", 250, "transport", false},
		{"different category", 1, date, "bus ticket", 250, "other", false},
		{"different date", 1, date.AddDate(0, 0, 1), "bus ticket", 250, "transport", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ExistsExact(ctx, tt.userID, tt.date, tt.description, tt.cents, tt.category)
			if err != nil {
				t.Fatalf("ExistsExact: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExistsExact = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListExpenditureYears(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, d := range []time.Time{
		time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
	} {
		if _, err := repo.Upsert(ctx, core.Expense{
			UserID:      1,
			Date:        d,
			Category:    "other",
			Amount:      core.Money{Cents: 100},
			Description: "x",
		}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	years, err := repo.ListExpenditureYears(ctx, 1)
	if err != nil {
		t.Fatalf("ListExpenditureYears: %v", err)
	}
	want := []int{2024, 2022}
	if len(years) != len(want) {
		t.Fatalf("years = %v, want %v", years, want)
	}
	for i := range want {
		if years[i] != want[i] {
			t.Errorf("years[%d] = %d, want %d", i, years[i], want[i])
		}
	}
}
