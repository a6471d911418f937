package mart

import (
	"github.com/shopspring/decimal"

	"github.com/wakala/dwh/internal/domain"
)

// CapitalScale converts the stored capital total into the unit the N1
// ratios are expressed in. N1.0 divides by the scaled capital while N1.1
// scales it back down.
const CapitalScale = 100

// RatioPlaces is the precision ratios are rounded to.
const RatioPlaces = 8

var capitalScale = decimal.NewFromInt(CapitalScale)

// Ratios are the three N1 ratios of a date. ZeroDivisors names the ratios
// left null because their denominator was zero.
type Ratios struct {
	N1_0         decimal.NullDecimal
	N1_1         decimal.NullDecimal
	N1_2         decimal.NullDecimal
	ZeroDivisors []string
}

// Calculate derives the ratios of agg. When any input is absent all three
// ratios are null; no partial result is produced.
func Calculate(agg domain.DailyAggregate) Ratios {
	var r Ratios
	if !agg.Complete() {
		return r
	}

	client := agg.ClientDeposits.Decimal
	deposits := client.Add(agg.CompanyDeposits.Decimal)
	scaled := agg.Capital.Decimal.Mul(capitalScale)

	r.N1_0 = r.divide("n1_0", client, scaled)
	r.N1_1 = r.divide("n1_1", scaled.Div(capitalScale), deposits.Add(agg.Assets.Decimal).Add(agg.Liabilities.Decimal))
	r.N1_2 = r.divide("n1_2", client, deposits)
	return r
}

func (r *Ratios) divide(name string, num, den decimal.Decimal) decimal.NullDecimal {
	if den.IsZero() {
		r.ZeroDivisors = append(r.ZeroDivisors, name)
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(num.DivRound(den, RatioPlaces))
}
