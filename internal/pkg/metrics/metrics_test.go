package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Calculation(ModeSave, OutcomeSuccess)
	m.Calculation(ModeSave, OutcomeSuccess)
	m.Calculation(ModePreview, OutcomeError)
	m.CSVRow(OutcomeSuccess)
	m.Upload("partial", 0.2)
	m.Invoice(OutcomeCreated)
	m.Overdue(3)
	m.Overdue(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.calculations.WithLabelValues(ModeSave, OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calculations.WithLabelValues(ModePreview, OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.csvRows.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues("partial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoices.WithLabelValues(OutcomeCreated)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.overdue))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Calculation(ModeSave, OutcomeSuccess)
		m.CSVRow(OutcomeError)
		m.Upload("failed", 1)
		m.Invoice(OutcomeExisting)
		m.Overdue(1)
	})
}
