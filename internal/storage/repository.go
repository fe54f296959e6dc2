package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/catalintache/hackathon-2025/internal/core"

	_ "modernc.org/sqlite"
)

// dateLayout is how expense timestamps are stored in the date column.
// Lexicographic order equals chronological order, so BETWEEN works on text.
const dateLayout = "2006-01-02 15:04:05"

// ErrNotFound is returned when an expense id does not exist.
var ErrNotFound = errors.New("expense not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Upsert inserts the expense when it has no id yet and updates it otherwise.
// It returns a fully populated copy; the argument is never mutated.
func (r *SQLiteRepository) Upsert(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.ID == 0 {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO expenses (user_id, date, category, amount_cents, description)
			 VALUES (?, ?, ?, ?, ?)`,
			e.UserID, e.Date.Format(dateLayout), e.Category, e.Amount.Cents, e.Description)
		if err != nil {
			return core.Expense{}, fmt.Errorf("insert expense: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return core.Expense{}, fmt.Errorf("read generated expense id: %w", err)
		}

		saved := e
		saved.ID = id

		slog.InfoContext(ctx, "Expense saved",
			"id", saved.ID,
			"user_id", saved.UserID,
			"description", saved.Description,
			"amount_cents", saved.Amount.Cents,
			"category", saved.Category)

		return saved, nil
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE expenses
		    SET user_id = ?, date = ?, category = ?, amount_cents = ?, description = ?
		  WHERE id = ?`,
		e.UserID, e.Date.Format(dateLayout), e.Category, e.Amount.Cents, e.Description, e.ID)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense updated", "id", e.ID, "user_id", e.UserID)

	return e, nil
}

// Delete removes an expense by id. Ownership is checked by the caller.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// Find retrieves a single expense by id.
func (r *SQLiteRepository) Find(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, date, category, amount_cents, description
		   FROM expenses WHERE id = ?`, id)

	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense by id: %w", err)
	}
	return e, nil
}

// FindInRange returns every expense of the user whose date falls within
// [from, to], newest first.
func (r *SQLiteRepository) FindInRange(ctx context.Context, userID int64, from, to time.Time) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, date, category, amount_cents, description
		   FROM expenses
		  WHERE user_id = ? AND date BETWEEN ? AND ?
		  ORDER BY date DESC`,
		userID, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query expenses in range: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

// FindPageInRange is FindInRange with LIMIT/OFFSET for paginated listings.
func (r *SQLiteRepository) FindPageInRange(ctx context.Context, userID int64, from, to time.Time, offset, limit int) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, date, category, amount_cents, description
		   FROM expenses
		  WHERE user_id = ? AND date BETWEEN ? AND ?
		  ORDER BY date DESC
		  LIMIT ? OFFSET ?`,
		userID, from.Format(dateLayout), to.Format(dateLayout), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query expense page: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

// CountInRange counts the user's expenses within [from, to].
func (r *SQLiteRepository) CountInRange(ctx context.Context, userID int64, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expenses WHERE user_id = ? AND date BETWEEN ? AND ?`,
		userID, from.Format(dateLayout), to.Format(dateLayout)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count expenses in range: %w", err)
	}
	return count, nil
}

// ExistsExact reports whether an expense with exactly these attributes is
// already stored. The importer relies on this for duplicate detection.
func (r *SQLiteRepository) ExistsExact(ctx context.Context, userID int64, date time.Time, description string, amountCents int64, category string) (bool, error) {
	var one int64
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM expenses
		  WHERE user_id = ? AND date = ? AND description = ? AND amount_cents = ? AND category = ?
		  LIMIT 1`,
		userID, date.Format(dateLayout), description, amountCents, category).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check exact expense: %w", err)
	}
	return true, nil
}

// ListExpenditureYears returns the distinct years the user has expenses in,
// newest first.
func (r *SQLiteRepository) ListExpenditureYears(ctx context.Context, userID int64) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT CAST(strftime('%Y', date) AS INTEGER) AS year
		   FROM expenses
		  WHERE user_id = ?
		  ORDER BY year DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenditure years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scan expenditure year: %w", err)
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenditure years: %w", err)
	}
	return years, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e       core.Expense
		rawDate string
	)
	if err := row.Scan(&e.ID, &e.UserID, &rawDate, &e.Category, &e.Amount.Cents, &e.Description); err != nil {
		return core.Expense{}, err
	}

	date, err := time.ParseInLocation(dateLayout, rawDate, time.UTC)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored date %q: %w", rawDate, err)
	}
	e.Date = date

	return e, nil
}

func collectExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}
