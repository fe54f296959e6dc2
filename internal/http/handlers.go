package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/catalintache/hackathon-2025/internal/core"
	"github.com/catalintache/hackathon-2025/internal/storage"
)

// formDateLayout is the date format of create/update payloads.
const formDateLayout = "2006-01-02"

// currentUser resolves the acting user from the X-User-ID header. Sessions
// and authentication belong to the outer product, not this engine.
func currentUser(r *http.Request) (core.User, bool) {
	raw := r.Header.Get("X-User-ID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return core.User{}, false
	}
	return core.User{ID: id}, true
}

type categoryTotalView struct {
	Value      float64 `json:"value"`
	Percentage int     `json:"percentage"`
}

type expenseView struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

func toExpenseView(e core.Expense) expenseView {
	return expenseView{
		ID:          e.ID,
		Date:        e.Date.Format(formDateLayout),
		Category:    e.Category,
		Amount:      e.Amount.Euros(),
		Description: e.Description,
	}
}

// handleDashboard returns the monthly summary plus, for the current calendar
// month only, the budget alerts.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid X-User-ID header")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	now := time.Now()
	year := queryInt(r, "year", now.Year())
	month := queryInt(r, "month", int(now.Month()))
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	overview, err := s.summary.MonthOverview(ctx, user, year, month)
	if err != nil {
		slog.ErrorContext(ctx, "Month overview failed", "error", err, "year", year, "month", month)
		writeError(w, http.StatusInternalServerError, "failed to compute monthly summary")
		return
	}

	// Alerts are only meaningful for the active month
	alerts := []string{}
	if year == now.Year() && month == int(now.Month()) {
		alerts, err = s.alerts.Generate(ctx, user, year, month)
		if err != nil {
			slog.ErrorContext(ctx, "Alert generation failed", "error", err, "year", year, "month", month)
			writeError(w, http.StatusInternalServerError, "failed to evaluate budget alerts")
			return
		}
		if alerts == nil {
			alerts = []string{}
		}
	}

	years, err := s.expenses.ListExpenditureYears(ctx, user)
	if err != nil {
		slog.ErrorContext(ctx, "List expenditure years failed", "error", err)
		years = nil
	}

	totals := make(map[string]categoryTotalView, len(overview.Totals))
	for cat, t := range overview.Totals {
		totals[cat] = categoryTotalView{Value: t.Value, Percentage: t.Percentage}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"selectedYear":          year,
		"selectedMonth":         month,
		"totalForMonth":         overview.Total,
		"totalsForCategories":   totals,
		"averagesForCategories": overview.Averages,
		"alerts":                alerts,
		"years":                 years,
	})
}

type expensePayload struct {
	Date        string `json:"date"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

func (p expensePayload) parse() (date time.Time, euros float64, err error) {
	date, err = time.ParseInLocation(formDateLayout, p.Date, time.UTC)
	if err != nil {
		return time.Time{}, 0, errors.New("date must be YYYY-MM-DD")
	}
	cents, err := core.ParseDecimalToCents(p.Amount)
	if err != nil {
		return time.Time{}, 0, errors.New("amount must be a positive decimal")
	}
	return date, float64(cents) / 100.0, nil
}

// handleExpenses lists a month's expenses (GET) or creates one (POST).
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid X-User-ID header")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		now := time.Now()
		year := queryInt(r, "year", now.Year())
		month := queryInt(r, "month", int(now.Month()))
		page := queryInt(r, "page", 1)
		pageSize := queryInt(r, "pageSize", 20)

		result, err := s.expenses.List(ctx, user, year, month, page, pageSize)
		if err != nil {
			slog.ErrorContext(ctx, "Expense list failed", "error", err, "year", year, "month", month)
			writeError(w, http.StatusInternalServerError, "failed to list expenses")
			return
		}

		items := make([]expenseView, 0, len(result.Items))
		for _, e := range result.Items {
			items = append(items, toExpenseView(e))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"items":       items,
			"totalCount":  result.TotalCount,
			"totalPages":  result.TotalPages,
			"currentPage": result.CurrentPage,
			"pageSize":    result.PageSize,
		})

	case http.MethodPost:
		var payload expensePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		date, euros, err := payload.parse()
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		saved, err := s.expenses.Create(ctx, user, euros, strings.TrimSpace(payload.Description), date, payload.Category)
		if err != nil {
			slog.ErrorContext(ctx, "Expense create failed", "error", err)
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, toExpenseView(saved))

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleExpenseByID updates (PUT) or deletes (DELETE) one expense, enforcing
// that the acting user owns it.
func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid X-User-ID header")
		return
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/expenses/"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	expense, err := s.expenses.Find(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "Expense lookup failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to load expense")
		return
	}
	if expense.UserID != user.ID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var payload expensePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		date, euros, err := payload.parse()
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		saved, err := s.expenses.Update(ctx, expense, euros, strings.TrimSpace(payload.Description), date, payload.Category)
		if err != nil {
			slog.ErrorContext(ctx, "Expense update failed", "error", err, "id", id)
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, toExpenseView(saved))

	case http.MethodDelete:
		if err := s.expenses.Delete(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Expense delete failed", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "failed to delete expense")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "PUT, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleImport runs the CSV bulk import for the uploaded "csv" file.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid X-User-ID header")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	// A missing upload is a precondition failure: nothing is processed
	file, _, err := r.FormFile("csv")
	if err != nil {
		slog.WarnContext(ctx, "CSV import failed: no file uploaded", "error", err)
		writeError(w, http.StatusBadRequest, "csv file upload is required")
		return
	}
	defer file.Close()

	report, err := s.importer.ImportCSV(ctx, user, file)
	if err != nil {
		slog.ErrorContext(ctx, "CSV import failed", "error", err)
		writeError(w, http.StatusInternalServerError, "csv import failed")
		return
	}

	for _, reason := range report.Skipped {
		slog.WarnContext(ctx, "CSV import skipped", "reason", reason)
	}
	slog.InfoContext(ctx, "CSV import finished",
		"imported", report.Imported,
		"skipped", len(report.Skipped))

	writeJSON(w, http.StatusOK, map[string]any{
		"imported":    report.Imported,
		"skipReasons": report.Skipped,
	})
}
