package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.AddWritten("canonical", "clients", 3)
	m.AddWritten("canonical", "clients", 2)
	m.AddSkipped("canonical", "clients", "watermark", 4)
	m.AddSkipped("canonical", "clients", "duplicate", 0)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.RowsWritten.WithLabelValues("canonical", "clients")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.RowsSkipped.WithLabelValues("canonical", "clients", "watermark")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RowsSkipped), "zero counts are not recorded")
}

func TestFlaggedRowsAreNotSkipped(t *testing.T) {
	m := New()
	m.AddFlagged("canonical", "clients", "missing_deposit", 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RowsFlagged.WithLabelValues("canonical", "clients", "missing_deposit")))
	assert.Equal(t, 0, testutil.CollectAndCount(m.RowsSkipped))
}

func TestWatermarkGauge(t *testing.T) {
	m := New()
	at := time.Date(2024, 11, 1, 17, 0, 0, 0, time.UTC)
	m.SetWatermark("warehouse", "capital", at)
	m.SetWatermark("warehouse", "assets", time.Time{})

	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(m.Watermark.WithLabelValues("warehouse", "capital")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Watermark))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AddWritten("mart", "params", 1)
		m.AddSkipped("mart", "params", "duplicate", 1)
		m.AddFlagged("canonical", "clients", "missing_deposit", 1)
		m.SetWatermark("mart", "params", time.Now())
		m.ObserveStage("mart", time.Now())
	})
	assert.NoError(t, m.WriteTextfile("/nonexistent/metrics.prom"))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveStage("aggregate", time.Now())
	path := filepath.Join(t.TempDir(), "dwh.prom")

	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `dwh_stage_duration_seconds_count{stage="aggregate"} 1`)
}
