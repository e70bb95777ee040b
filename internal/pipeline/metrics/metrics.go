package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TransitionsTotal        *prometheus.CounterVec
	InvalidTransitionsTotal prometheus.Counter
	StageApplications       *prometheus.GaugeVec
}

func New() *Metrics {
	return &Metrics{
		TransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "talentflow_pipeline_transitions_total",
			Help: "Total number of applied stage transitions",
		}, []string{"target"}),
		InvalidTransitionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talentflow_pipeline_invalid_transitions_total",
			Help: "Total number of rejected stage transitions",
		}),
		StageApplications: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "talentflow_pipeline_stage_applications",
			Help: "Current number of applications per pipeline stage",
		}, []string{"stage"}),
	}
}

func (m *Metrics) IncrementTransitions(target string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(target).Inc()
}

func (m *Metrics) IncrementInvalidTransitions() {
	if m == nil {
		return
	}
	m.InvalidTransitionsTotal.Inc()
}

func (m *Metrics) SetStageApplications(stage string, count int) {
	if m == nil {
		return
	}
	m.StageApplications.WithLabelValues(stage).Set(float64(count))
}
