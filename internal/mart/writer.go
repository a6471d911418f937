package mart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wakala/dwh/internal/domain"
	"github.com/wakala/dwh/internal/logger"
	"github.com/wakala/dwh/internal/metrics"
	"github.com/wakala/dwh/internal/repository"
)

// WriteResult reports the ratio row of one date. Written is false when the
// date was already in the mart or had no aggregate to compute from.
type WriteResult struct {
	Date    domain.Date      `json:"date"`
	Written bool             `json:"written"`
	Reason  string           `json:"reason,omitempty"`
	Row     *domain.RatioRow `json:"row,omitempty"`
}

// Writer fills the mart from the warehouse common data.
type Writer struct {
	aggregates *repository.AggregateRepo
	ratios     *repository.RatioRepo
	standards  domain.Standards
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewWriter(store *repository.Store, standards domain.Standards, m *metrics.Metrics) *Writer {
	return &Writer{
		aggregates: store.Aggregates,
		ratios:     store.Ratios,
		standards:  standards,
		metrics:    m,
		now:        time.Now,
	}
}

func (w *Writer) WithClock(now func() time.Time) *Writer {
	w.now = now
	return w
}

// Write computes and stores the ratio row of day.
func (w *Writer) Write(ctx context.Context, day domain.Date) (*WriteResult, error) {
	exists, err := w.ratios.Exists(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("check params %s: %w", day, err)
	}
	if exists {
		w.metrics.AddSkipped(string(domain.LayerMart), "params", "duplicate", 1)
		return &WriteResult{Date: day, Reason: "already in mart"}, nil
	}

	agg, err := w.aggregates.Get(ctx, day)
	if errors.Is(err, repository.ErrNotFound) {
		logger.Warn("[mart] %s: no common data, nothing to write", day)
		return &WriteResult{Date: day, Reason: "no common data"}, nil
	}
	if err != nil {
		return nil, err
	}
	return w.write(ctx, *agg)
}

func (w *Writer) write(ctx context.Context, agg domain.DailyAggregate) (*WriteResult, error) {
	ratios := Calculate(agg)
	if !agg.Complete() {
		logger.Warn("[mart] %s: incomplete common data, ratios recorded as null", agg.Date)
	}
	if len(ratios.ZeroDivisors) > 0 {
		logger.Warn("[mart] %s: zero denominator for %s, recorded as null", agg.Date, strings.Join(ratios.ZeroDivisors, ", "))
	}

	row := domain.RatioRow{
		Date:       agg.Date,
		N1_0:       ratios.N1_0,
		N1_1:       ratios.N1_1,
		N1_2:       ratios.N1_2,
		Standards:  w.standards,
		RecordedAt: w.now().UTC(),
	}
	inserted, err := w.ratios.Insert(ctx, row)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return &WriteResult{Date: agg.Date, Reason: "already in mart"}, nil
	}

	w.metrics.AddWritten(string(domain.LayerMart), "params", 1)
	logger.Info("[mart] %s: n1_0=%s n1_1=%s n1_2=%s", agg.Date, show(row.N1_0), show(row.N1_1), show(row.N1_2))
	return &WriteResult{Date: agg.Date, Written: true, Row: &row}, nil
}

// WriteAll writes a ratio row for every aggregate date not yet in the mart.
func (w *Writer) WriteAll(ctx context.Context) ([]WriteResult, error) {
	start := time.Now()
	defer w.metrics.ObserveStage("mart", start)

	aggs, err := w.aggregates.List(ctx, repository.DateRange{})
	if err != nil {
		return nil, err
	}

	var results []WriteResult
	for _, agg := range aggs {
		exists, err := w.ratios.Exists(ctx, agg.Date)
		if err != nil {
			return results, fmt.Errorf("check params %s: %w", agg.Date, err)
		}
		if exists {
			w.metrics.AddSkipped(string(domain.LayerMart), "params", "duplicate", 1)
			results = append(results, WriteResult{Date: agg.Date, Reason: "already in mart"})
			continue
		}
		res, err := w.write(ctx, agg)
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}
	return results, nil
}

func show(d decimal.NullDecimal) string {
	if !d.Valid {
		return "null"
	}
	return d.Decimal.String()
}
