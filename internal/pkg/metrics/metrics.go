package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sms"

// Calculation modes.
const (
	ModeSave        = "save"
	ModePreview     = "preview"
	ModeRecalculate = "recalculate"
)

// Outcomes shared by the counters below.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeSkipped  = "skipped"
	OutcomeCreated  = "created"
	OutcomeExisting = "existing"
)

// Metrics holds the salary pipeline counters. A nil *Metrics is a no-op.
type Metrics struct {
	calculations   *prometheus.CounterVec
	csvRows        *prometheus.CounterVec
	uploads        *prometheus.CounterVec
	invoices       *prometheus.CounterVec
	overdue        prometheus.Counter
	uploadDuration prometheus.Histogram
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "salary",
			Name:      "calculations_total",
			Help:      "Salary computations by mode and outcome.",
		}, []string{"mode", "outcome"}),
		csvRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "biometric",
			Name:      "csv_rows_total",
			Help:      "Biometric CSV rows processed by result.",
		}, []string{"result"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "biometric",
			Name:      "uploads_total",
			Help:      "Biometric CSV uploads by final status.",
		}, []string{"status"}),
		invoices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "invoice",
			Name:      "generated_total",
			Help:      "Invoice generation requests by outcome.",
		}, []string{"outcome"}),
		overdue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "invoice",
			Name:      "marked_overdue_total",
			Help:      "Invoices flipped to overdue by the sweep.",
		}),
		uploadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "biometric",
			Name:      "upload_duration_seconds",
			Help:      "Wall time of a full CSV ingestion.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.calculations, m.csvRows, m.uploads, m.invoices, m.overdue, m.uploadDuration)
	return m
}

func (m *Metrics) Calculation(mode, outcome string) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) CSVRow(result string) {
	if m == nil {
		return
	}
	m.csvRows.WithLabelValues(result).Inc()
}

func (m *Metrics) Upload(status string, seconds float64) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(status).Inc()
	m.uploadDuration.Observe(seconds)
}

func (m *Metrics) Invoice(outcome string) {
	if m == nil {
		return
	}
	m.invoices.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Overdue(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.overdue.Add(float64(n))
}
