package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/catalintache/hackathon-2025/internal/core"
)

// memStore is an in-memory ExpenseStore for engine tests.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Expense
}

func newMemStore() *memStore {
	return &memStore{nextID: 1}
}

func (s *memStore) inRange(userID int64, from, to time.Time) []core.Expense {
	var out []core.Expense
	for _, e := range s.items {
		if e.UserID != userID {
			continue
		}
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (s *memStore) FindInRange(_ context.Context, userID int64, from, to time.Time) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inRange(userID, from, to), nil
}

func (s *memStore) FindPageInRange(_ context.Context, userID int64, from, to time.Time, offset, limit int) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.inRange(userID, from, to)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *memStore) CountInRange(_ context.Context, userID int64, from, to time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.inRange(userID, from, to))), nil
}

func (s *memStore) ExistsExact(_ context.Context, userID int64, date time.Time, description string, amountCents int64, category string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.items {
		if e.UserID == userID && e.Date.Equal(date) && e.Description == description &&
			e.Amount.Cents == amountCents && e.Category == category {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Upsert(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		e.ID = s.nextID
		s.nextID++
		s.items = append(s.items, e)
		return e, nil
	}
	for i, existing := range s.items {
		if existing.ID == e.ID {
			s.items[i] = e
			return e, nil
		}
	}
	s.items = append(s.items, e)
	return e, nil
}

func (s *memStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.items {
		if e.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *memStore) Find(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.items {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, errNotFound
}

var errNotFound = errors.New("expense not found")

func (s *memStore) ListExpenditureYears(_ context.Context, userID int64) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[int]struct{}{}
	var years []int
	for _, e := range s.items {
		if e.UserID != userID {
			continue
		}
		y := e.Date.Year()
		if _, ok := seen[y]; !ok {
			seen[y] = struct{}{}
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// seed inserts an expense directly, bypassing validation.
func (s *memStore) seed(userID int64, date time.Time, category string, cents int64, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, core.Expense{
		ID:          s.nextID,
		UserID:      userID,
		Date:        date,
		Category:    category,
		Amount:      core.Money{Cents: cents},
		Description: description,
	})
	s.nextID++
}
