// Package metrics holds the process-wide HTTP metrics. Per-context business
// metrics live next to their services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "talentflow_http_request_duration_seconds",
			Help:    "Latency of HTTP requests by route and method",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "talentflow_http_requests_total",
			Help: "Total HTTP requests by route, method, and status",
		}, []string{"route", "method", "status"}),
	}
}

// ObserveRequest records one served request. Nil-safe.
func (m *Metrics) ObserveRequest(route, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method).Observe(seconds)
	m.RequestsTotal.WithLabelValues(route, method, status).Inc()
}
