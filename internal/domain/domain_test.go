package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermarkAdmits(t *testing.T) {
	at := time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty destination admits everything", func(t *testing.T) {
		assert.True(t, Watermark{}.Admits(at.Add(-time.Hour)))
	})

	t.Run("only strictly later rows pass", func(t *testing.T) {
		w := Watermark{At: at, Valid: true}
		assert.False(t, w.Admits(at.Add(-time.Second)))
		assert.False(t, w.Admits(at))
		assert.True(t, w.Admits(at.Add(time.Microsecond)))
	})

	t.Run("advance never moves backwards", func(t *testing.T) {
		w := Watermark{}.Advance(at)
		assert.Equal(t, at, w.At)
		assert.Equal(t, at, w.Advance(at.Add(-time.Hour)).At)
		assert.Equal(t, at.Add(time.Hour), w.Advance(at.Add(time.Hour)).At)
	})
}

func amounts(vals ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func TestNewFact(t *testing.T) {
	f, err := NewFact(FactCapital, amounts("30", "50", "20.5"))
	require.NoError(t, err)
	capital, ok := f.(Capital)
	require.True(t, ok)
	assert.Equal(t, "20.5", capital.AccumulatedEarnings.String())
	assert.Equal(t, "100.5", Total(f).String())

	f, err = NewFact(FactAssets, amounts("1", "2", "3", "4", "5", "6", "7"))
	require.NoError(t, err)
	assert.Equal(t, FactAssets, f.Kind())
	assert.Equal(t, "28", Total(f).String())

	f, err = NewFact(FactLiabilities, amounts("1", "1", "1", "1", "1"))
	require.NoError(t, err)
	assert.Equal(t, "5", Total(f).String())

	_, err = NewFact(FactCapital, amounts("1", "2"))
	assert.Error(t, err)
	_, err = NewFact(FactKind("goodwill"), nil)
	assert.Error(t, err)
}

func TestDepositActiveOn(t *testing.T) {
	day := Date{2024, time.November, 1}
	dep := Deposit{OpeningDate: day.AddDays(-10)}

	assert.True(t, dep.ActiveOn(day), "open-ended deposit")

	dep.ClosingDate = NullDate{Date: day, Valid: true}
	assert.False(t, dep.ActiveOn(day), "closed on the day")

	dep.ClosingDate = NullDate{Date: day.AddDays(1), Valid: true}
	assert.True(t, dep.ActiveOn(day))

	dep.OpeningDate = day
	assert.False(t, dep.ActiveOn(day), "opened on the day")
}

func TestParseEntities(t *testing.T) {
	all, err := ParseEntities("")
	require.NoError(t, err)
	assert.Equal(t, AllEntities, all)

	all, err = ParseEntities("ALL")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	some, err := ParseEntities("capital, clients")
	require.NoError(t, err)
	assert.Equal(t, []Entity{EntityCapital, EntityClients}, some)

	_, err = ParseEntities("capital,goodwill")
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestDailyAggregateComplete(t *testing.T) {
	v := decimal.NewNullDecimal(decimal.NewFromInt(1))
	agg := DailyAggregate{ClientDeposits: v, CompanyDeposits: v, Capital: v, Assets: v, Liabilities: v}
	assert.True(t, agg.Complete())

	agg.Liabilities = decimal.NullDecimal{}
	assert.False(t, agg.Complete())
}
