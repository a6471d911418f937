package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type FactKind string

const (
	FactCapital     FactKind = "capital"
	FactAssets      FactKind = "assets"
	FactLiabilities FactKind = "liabilities"
)

var FactKinds = []FactKind{FactCapital, FactAssets, FactLiabilities}

func (k FactKind) Entity() Entity { return Entity(k) }

// Arity is the number of amount columns a fact of this kind discloses.
func (k FactKind) Arity() int {
	switch k {
	case FactCapital:
		return 3
	case FactAssets:
		return 7
	case FactLiabilities:
		return 5
	}
	return 0
}

// Fact is a point-in-time regulatory figure. Amounts are returned in
// column order.
type Fact interface {
	Kind() FactKind
	Amounts() []decimal.Decimal
}

type Capital struct {
	ReserveFund         decimal.Decimal `json:"reserve_fund"`
	EquityCapital       decimal.Decimal `json:"equity_capital"`
	AccumulatedEarnings decimal.Decimal `json:"accumulated_earnings"`
}

func (Capital) Kind() FactKind { return FactCapital }

func (c Capital) Amounts() []decimal.Decimal {
	return []decimal.Decimal{c.ReserveFund, c.EquityCapital, c.AccumulatedEarnings}
}

type Assets struct {
	Securities       decimal.Decimal `json:"securities"`
	RealEstate       decimal.Decimal `json:"real_estate"`
	FinancialReports decimal.Decimal `json:"financial_reports"`
	CreditFacilities decimal.Decimal `json:"credit_facilities"`
	Machinery        decimal.Decimal `json:"machinery"`
	Debts            decimal.Decimal `json:"debts"`
	Equipment        decimal.Decimal `json:"equipment"`
}

func (Assets) Kind() FactKind { return FactAssets }

func (a Assets) Amounts() []decimal.Decimal {
	return []decimal.Decimal{
		a.Securities, a.RealEstate, a.FinancialReports, a.CreditFacilities,
		a.Machinery, a.Debts, a.Equipment,
	}
}

type Liabilities struct {
	FinancialInstrumentsDebts decimal.Decimal `json:"financial_instruments_debts"`
	SecuritiesObligations     decimal.Decimal `json:"securities_obligations"`
	ReportingData             decimal.Decimal `json:"reporting_data"`
	InvoicesToPay             decimal.Decimal `json:"invoices_to_pay"`
	FundsInAccounts           decimal.Decimal `json:"funds_in_accounts"`
}

func (Liabilities) Kind() FactKind { return FactLiabilities }

func (l Liabilities) Amounts() []decimal.Decimal {
	return []decimal.Decimal{
		l.FinancialInstrumentsDebts, l.SecuritiesObligations, l.ReportingData,
		l.InvoicesToPay, l.FundsInAccounts,
	}
}

// NewFact builds a fact of the given kind from amounts in column order.
func NewFact(kind FactKind, amounts []decimal.Decimal) (Fact, error) {
	if len(amounts) != kind.Arity() || kind.Arity() == 0 {
		return nil, fmt.Errorf("%s: expected %d amounts, got %d", kind, kind.Arity(), len(amounts))
	}
	a := amounts
	switch kind {
	case FactCapital:
		return Capital{a[0], a[1], a[2]}, nil
	case FactAssets:
		return Assets{a[0], a[1], a[2], a[3], a[4], a[5], a[6]}, nil
	default:
		return Liabilities{a[0], a[1], a[2], a[3], a[4]}, nil
	}
}

// Total sums every disclosed amount of the fact.
func Total(f Fact) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range f.Amounts() {
		sum = sum.Add(a)
	}
	return sum
}

// Snapshot is a fact as of RecordedAt. BankID is zero in staging.
type Snapshot struct {
	ID         int64     `json:"id"`
	Fact       Fact      `json:"fact"`
	RecordedAt time.Time `json:"recorded_at"`
	BankID     int64     `json:"bank_id,omitempty"`
	FileName   string    `json:"file_name,omitempty"`
}

func (s Snapshot) Kind() FactKind { return s.Fact.Kind() }

func (s Snapshot) Day() Date { return DateOf(s.RecordedAt) }

func (s Snapshot) Total() decimal.Decimal { return Total(s.Fact) }
