package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"parcel-planner/internal/diagnostic"
)

const (
	namespace = "parcel_planner"

	resultLabelName   = "result"
	kindLabelName     = "kind"
	severityLabelName = "severity"

	// Result label values.
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultFailed  = "failed"
)

// buckets are analysis latencies in milliseconds:
// [0.1 0.2 0.4 0.8 1.6 3.2 6.4 12.8 25.6 51.2 102.4 204.8 409.6 819.2].
var buckets = prometheus.ExponentialBuckets(0.1, 2, 14)

// Metrics holds the collectors of one planner instance.
type Metrics struct {
	Analyses    *prometheus.CounterVec
	Diagnostics *prometheus.CounterVec
	Duration    prometheus.Histogram
}

// New creates the collectors and registers them on r.
func New(r prometheus.Registerer) *Metrics {
	m := &Metrics{
		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "number of analyzed types by result",
			}, []string{resultLabelName}),
		Diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diagnostics_total",
				Help:      "number of reported diagnostics by kind and severity",
			}, []string{kindLabelName, severityLabelName}),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analysis_duration_ms",
				Help:      "time spent analyzing one type",
				Buckets:   buckets,
			}),
	}

	r.MustRegister(m.Analyses, m.Diagnostics, m.Duration)

	return m
}

// ObserveAnalysis records one finished analysis. A nil diags marks a failure
// of the type source.
func (m *Metrics) ObserveAnalysis(diags *diagnostic.Diagnostics, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.Duration.Observe(float64(elapsed.Microseconds()) / 1000)

	switch {
	case diags == nil:
		m.Analyses.WithLabelValues(ResultFailed).Inc()
		return
	case diags.HasErrors():
		m.Analyses.WithLabelValues(ResultInvalid).Inc()
	default:
		m.Analyses.WithLabelValues(ResultOK).Inc()
	}

	for _, d := range diags.All() {
		m.Diagnostics.WithLabelValues(d.Kind.String(), d.Severity.String()).Inc()
	}
}
