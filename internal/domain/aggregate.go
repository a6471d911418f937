package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyAggregate holds the inputs of the ratio calculation for one date.
// A fact total is invalid when no snapshot was found in the lookback window.
type DailyAggregate struct {
	Date            Date                `json:"date"`
	ClientDeposits  decimal.NullDecimal `json:"client_deposits_total"`
	CompanyDeposits decimal.NullDecimal `json:"company_deposits_total"`
	Capital         decimal.NullDecimal `json:"bank_total_capital"`
	Assets          decimal.NullDecimal `json:"bank_total_assets"`
	Liabilities     decimal.NullDecimal `json:"bank_total_liabilities"`
	RecordedAt      time.Time           `json:"recorded_at"`
}

// Complete reports whether all five inputs are present.
func (a DailyAggregate) Complete() bool {
	return a.ClientDeposits.Valid && a.CompanyDeposits.Valid &&
		a.Capital.Valid && a.Assets.Valid && a.Liabilities.Valid
}

// Standards are the regulator thresholds stored next to each ratio.
type Standards struct {
	N1_0 decimal.Decimal `json:"standard_n1_0"`
	N1_1 decimal.Decimal `json:"standard_n1_1"`
	N1_2 decimal.Decimal `json:"standard_n1_2"`
}

func DefaultStandards() Standards {
	return Standards{
		N1_0: decimal.RequireFromString("0.08"),
		N1_1: decimal.RequireFromString("0.045"),
		N1_2: decimal.RequireFromString("0.06"),
	}
}

type RatioRow struct {
	Date       Date                `json:"date"`
	N1_0       decimal.NullDecimal `json:"n1_0"`
	N1_1       decimal.NullDecimal `json:"n1_1"`
	N1_2       decimal.NullDecimal `json:"n1_2"`
	Standards  Standards           `json:"standards"`
	RecordedAt time.Time           `json:"recorded_at"`
}
