package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records report throughput. A nil *Metrics is a no-op.
type Metrics struct {
	reports  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "insurance",
			Name:      "reports_total",
			Help:      "Reports generated, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "insurance",
			Name:      "report_duration_seconds",
			Help:      "Time spent producing a report, including the record fetch.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(m.reports, m.duration)
	}
	return m
}

func (m *Metrics) Observe(kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.reports.WithLabelValues(kind, outcome).Inc()
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}
