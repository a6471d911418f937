package ingestion

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wakala/dwh/internal/domain"
)

// RowError describes a file row that was skipped.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readRows feeds every data row after the header to fn. A row fn rejects is
// recorded and skipped; only an unreadable file is an error.
func readRows(data []byte, fn func(row []string) error) ([]RowError, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var skipped []RowError
	lineNum := 1
	for {
		lineNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				skipped = append(skipped, RowError{Line: lineNum, Reason: err.Error()})
				continue
			}
			return skipped, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		if err := fn(row); err != nil {
			skipped = append(skipped, RowError{Line: lineNum, Reason: err.Error()})
		}
	}
	return skipped, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: invalid amount %q", field, s)
	}
	return d, nil
}

func parseDate(field, s string) (domain.Date, error) {
	d, err := domain.ParseDate(s)
	if err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return domain.Date{}, fmt.Errorf("%s: invalid date %q", field, s)
	}
	return domain.DateOf(t), nil
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05.999999",
	time.RFC3339Nano,
	"2006-01-02 15:04",
	domain.DateLayout,
}

// parseTimestamp reads a file timestamp. Values without a zone are UTC.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Microsecond), nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp: invalid value %q", s)
}
