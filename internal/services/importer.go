package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/catalintache/hackathon-2025/internal/core"
)

// csvDateLayout is the month/day/year format import files use.
const csvDateLayout = "1/2/2006"

// ErrNoUpload is the precondition error for an absent CSV stream: nothing is
// processed and no partial result exists.
var ErrNoUpload = errors.New("no csv upload provided")

// ImportReport is the outcome of one import run: how many rows became
// expenses and, in file order, why the others were skipped.
type ImportReport struct {
	Imported int
	Skipped  []string
}

// Importer is the CSV bulk-import pipeline. Rows are processed strictly in
// file order; a bad row is recorded and skipped, never aborts the batch.
type Importer struct {
	store ExpenseStore
}

func NewImporter(store ExpenseStore) *Importer {
	return &Importer{store: store}
}

// ImportCSV reads expense rows (description, amount, m/d/Y date, category)
// from r and persists the valid ones for the user. A leading header line is
// recognized by the "Description," prefix and skipped. Duplicate detection
// checks the store only, so re-importing the same file is idempotent: the
// second run skips every row as a duplicate.
func (im *Importer) ImportCSV(ctx context.Context, user core.User, r io.Reader) (ImportReport, error) {
	if user.ID == 0 {
		return ImportReport{}, core.ErrMissingOwner
	}
	if r == nil {
		return ImportReport{}, ErrNoUpload
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return ImportReport{}, fmt.Errorf("read csv upload: %w", err)
	}

	var report ImportReport
	lines := strings.Split(string(content), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Header is only recognized on the very first line
		if i == 0 && strings.HasPrefix(strings.ToLower(line), "description,") {
			continue
		}

		lineNo := i + 1
		description, amountStr, dateStr, category := splitRow(line)

		date, err := time.ParseInLocation(csvDateLayout, dateStr, time.UTC)
		if err != nil {
			report.Skipped = append(report.Skipped, fmt.Sprintf("line %d bad date “%s”", lineNo, dateStr))
			continue
		}
		// Normalized to midnight so equal rows dedup regardless of time parts
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

		if !core.ValidCategory(category) {
			report.Skipped = append(report.Skipped, fmt.Sprintf("line %d unknown category “%s”", lineNo, category))
			continue
		}

		amount, err := strconv.ParseFloat(amountStr, 64)
		amountCents := int64(math.Round(amount * 100))
		if err != nil || amountCents <= 0 {
			report.Skipped = append(report.Skipped, fmt.Sprintf("line %d invalid amount “%s”", lineNo, amountStr))
			continue
		}

		exists, err := im.store.ExistsExact(ctx, user.ID, date, description, amountCents, category)
		if err != nil {
			return report, fmt.Errorf("duplicate check at line %d: %w", lineNo, err)
		}
		if exists {
			report.Skipped = append(report.Skipped, fmt.Sprintf("line %d duplicate", lineNo))
			continue
		}

		expense := core.Expense{
			UserID:      user.ID,
			Date:        date,
			Category:    category,
			Amount:      core.Money{Cents: amountCents},
			Description: description,
		}
		if _, err := im.store.Upsert(ctx, expense); err != nil {
			// A failing store is an I/O problem, not a data error in the row
			return report, fmt.Errorf("persist expense at line %d: %w", lineNo, err)
		}

		report.Imported++
	}

	return report, nil
}

// splitRow parses one CSV line into the four ordered fields, padding missing
// trailing fields with empty strings so short rows fall through the regular
// validation chain.
func splitRow(line string) (description, amount, date, category string) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.FieldsPerRecord = -1
	fields, err := reader.Read()
	if err != nil {
		fields = nil
	}
	for len(fields) < 4 {
		fields = append(fields, "")
	}
	return fields[0], fields[1], fields[2], fields[3]
}
