package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics publishes import and derivation instrumentation. All methods
// are nil-safe so tests and tools can run without a registry.
type Metrics struct {
	rowsImported    *prometheus.CounterVec
	importDuration  *prometheus.HistogramVec
	studentsDerived prometheus.Counter
}

// NewMetrics registers the import metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rowsImported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reporting",
			Name:      "import_rows_total",
			Help:      "Rows imported into the normalized tables.",
		}, []string{"table"}),
		importDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reporting",
			Name:      "import_duration_seconds",
			Help:      "Wall-clock duration of import and derivation runs.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"table", "outcome"}),
		studentsDerived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reporting",
			Name:      "derived_students_total",
			Help:      "Students processed by the enrolment-interval derivation.",
		}),
	}
	reg.MustRegister(m.rowsImported, m.importDuration, m.studentsDerived)
	return m
}

// AddRows counts rows written to one table.
func (m *Metrics) AddRows(table string, n int) {
	if m == nil {
		return
	}
	m.rowsImported.WithLabelValues(table).Add(float64(n))
}

// ObserveRun records one import or derivation run.
func (m *Metrics) ObserveRun(table string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.importDuration.WithLabelValues(table, outcome).Observe(time.Since(start).Seconds())
}

// AddDerivedStudents counts students processed during derivation.
func (m *Metrics) AddDerivedStudents(n int) {
	if m == nil {
		return
	}
	m.studentsDerived.Add(float64(n))
}
