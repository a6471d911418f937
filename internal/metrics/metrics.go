package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks rows moved between layers, the rows each hand-off skipped
// and why, the watermark each destination ended at, and stage durations.
type Metrics struct {
	Registry      *prometheus.Registry
	RowsWritten   *prometheus.CounterVec
	RowsSkipped   *prometheus.CounterVec
	RowsFlagged   *prometheus.CounterVec
	Watermark     *prometheus.GaugeVec
	StageDuration *prometheus.HistogramVec
}

// New creates a Metrics instance registered on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		RowsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dwh_rows_written_total",
			Help: "Rows inserted into a layer",
		}, []string{"layer", "entity"}),
		RowsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dwh_rows_skipped_total",
			Help: "Candidate rows not inserted, by reason (duplicate, watermark, malformed)",
		}, []string{"layer", "entity", "reason"}),
		RowsFlagged: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dwh_rows_flagged_total",
			Help: "Rows inserted with a data-quality warning, by reason (missing_deposit)",
		}, []string{"layer", "entity", "reason"}),
		Watermark: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dwh_watermark_timestamp_seconds",
			Help: "Latest propagated timestamp per destination layer and entity",
		}, []string{"layer", "entity"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dwh_stage_duration_seconds",
			Help:    "Duration of pipeline stages",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"stage"}),
	}
}

// AddWritten records n rows inserted into layer. Safe on a nil receiver.
func (m *Metrics) AddWritten(layer, entity string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.RowsWritten.WithLabelValues(layer, entity).Add(float64(n))
}

func (m *Metrics) AddSkipped(layer, entity, reason string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.RowsSkipped.WithLabelValues(layer, entity, reason).Add(float64(n))
}

// AddFlagged records n rows that were written despite a data-quality problem.
func (m *Metrics) AddFlagged(layer, entity, reason string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.RowsFlagged.WithLabelValues(layer, entity, reason).Add(float64(n))
}

func (m *Metrics) SetWatermark(layer, entity string, t time.Time) {
	if m == nil || t.IsZero() {
		return
	}
	m.Watermark.WithLabelValues(layer, entity).Set(float64(t.Unix()))
}

// ObserveStage records the duration of a stage.
// Call with time.Now() at the start of the stage.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// WriteTextfile dumps the registry for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
