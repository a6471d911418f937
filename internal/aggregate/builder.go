package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wakala/dwh/internal/domain"
	"github.com/wakala/dwh/internal/logger"
	"github.com/wakala/dwh/internal/metrics"
)

// DepositSource sums the deposits of kind active on day.
type DepositSource interface {
	ActiveDepositTotal(ctx context.Context, kind domain.PartyKind, day domain.Date) (decimal.Decimal, error)
}

// Store keeps one aggregate per date.
type Store interface {
	Exists(ctx context.Context, day domain.Date) (bool, error)
	Insert(ctx context.Context, agg domain.DailyAggregate) (bool, error)
}

// BuildResult reports the aggregate of one date. Built is false when the
// date already had an aggregate.
type BuildResult struct {
	Date      domain.Date            `json:"date"`
	Built     bool                   `json:"built"`
	Aggregate *domain.DailyAggregate `json:"aggregate,omitempty"`
}

// Builder assembles the warehouse common data for a date.
type Builder struct {
	facts     FactSource
	deposits  DepositSource
	store     Store
	deltaDays int
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewBuilder(facts FactSource, deposits DepositSource, store Store, deltaDays int, m *metrics.Metrics) (*Builder, error) {
	if deltaDays < 0 {
		return nil, ErrNegativeWindow
	}
	return &Builder{
		facts:     facts,
		deposits:  deposits,
		store:     store,
		deltaDays: deltaDays,
		metrics:   m,
		now:       time.Now,
	}, nil
}

func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build writes the aggregate for day unless one exists. Fact totals not
// found within the lookback window are stored as null.
func (b *Builder) Build(ctx context.Context, day domain.Date) (*BuildResult, error) {
	start := time.Now()
	defer b.metrics.ObserveStage("aggregate", start)

	exists, err := b.store.Exists(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("check common data %s: %w", day, err)
	}
	if exists {
		logger.Info("[aggregate] %s already built, skipping", day)
		b.metrics.AddSkipped(string(domain.LayerWarehouse), "common_data", "duplicate", 1)
		return &BuildResult{Date: day}, nil
	}

	agg := domain.DailyAggregate{Date: day, RecordedAt: b.now().UTC()}

	clients, err := b.deposits.ActiveDepositTotal(ctx, domain.PartyClient, day)
	if err != nil {
		return nil, err
	}
	companies, err := b.deposits.ActiveDepositTotal(ctx, domain.PartyCompany, day)
	if err != nil {
		return nil, err
	}
	agg.ClientDeposits = decimal.NewNullDecimal(clients)
	agg.CompanyDeposits = decimal.NewNullDecimal(companies)

	totals := map[domain.FactKind]*decimal.NullDecimal{
		domain.FactCapital:     &agg.Capital,
		domain.FactAssets:      &agg.Assets,
		domain.FactLiabilities: &agg.Liabilities,
	}
	for _, kind := range domain.FactKinds {
		snap, err := Resolve(ctx, b.facts, kind, day, b.deltaDays)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			logger.Warn("[aggregate] %s: no %s within %d days", day, kind, b.deltaDays)
			continue
		}
		*totals[kind] = decimal.NewNullDecimal(snap.Total())
		logger.Debug("[aggregate] %s: %s resolved from %s", day, kind, snap.RecordedAt.Format(time.RFC3339))
	}

	inserted, err := b.store.Insert(ctx, agg)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return &BuildResult{Date: day}, nil
	}

	b.metrics.AddWritten(string(domain.LayerWarehouse), "common_data", 1)
	logger.Info("[aggregate] %s built (complete=%t)", day, agg.Complete())
	return &BuildResult{Date: day, Built: true, Aggregate: &agg}, nil
}

// BuildRange builds every step-th date from from to to inclusive.
func (b *Builder) BuildRange(ctx context.Context, from, to domain.Date, step int) ([]BuildResult, error) {
	if step < 1 {
		return nil, fmt.Errorf("step must be positive, got %d", step)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("range end %s is before start %s", to, from)
	}

	var results []BuildResult
	for day := from; !day.After(to); day = day.AddDays(step) {
		res, err := b.Build(ctx, day)
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}
	return results, nil
}
