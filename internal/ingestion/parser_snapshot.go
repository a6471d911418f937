package ingestion

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wakala/dwh/internal/domain"
)

// ParsedSnapshot is a snapshot file row. Stamped reports whether the row
// carried its own timestamp.
type ParsedSnapshot struct {
	Snapshot domain.Snapshot
	Stamped  bool
}

// ParseSnapshots parses a capital, assets or liabilities file. Each row holds
// the amounts of the kind in column order, optionally followed by a
// timestamp:
//
//	capital:     reserve_fund,equity_capital,accumulated_earnings[,timestamp]
//	assets:      securities,real_estate,financial_reports,credit_facilities,machinery,debts,equipment[,timestamp]
//	liabilities: financial_instruments_debts,securities_obligations,reporting_data,invoices_to_pay,funds_in_accounts[,timestamp]
func ParseSnapshots(data []byte, kind domain.FactKind) ([]ParsedSnapshot, []RowError, error) {
	n := kind.Arity()
	if n == 0 {
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownEntity, kind)
	}

	var records []ParsedSnapshot
	skipped, err := readRows(data, func(row []string) error {
		if len(row) != n && len(row) != n+1 {
			return fmt.Errorf("expected %d or %d columns, got %d", n, n+1, len(row))
		}
		amounts := make([]decimal.Decimal, n)
		for i := 0; i < n; i++ {
			a, err := parseAmount(fmt.Sprintf("column %d", i+1), row[i])
			if err != nil {
				return err
			}
			amounts[i] = a
		}
		fact, err := domain.NewFact(kind, amounts)
		if err != nil {
			return err
		}

		rec := ParsedSnapshot{Snapshot: domain.Snapshot{Fact: fact}}
		if len(row) == n+1 && row[n] != "" {
			ts, err := parseTimestamp(row[n])
			if err != nil {
				return err
			}
			rec.Snapshot.RecordedAt = ts
			rec.Stamped = true
		}
		records = append(records, rec)
		return nil
	})
	return records, skipped, err
}
