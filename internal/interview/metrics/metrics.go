package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ScheduledTotal    prometheus.Counter
	ConflictsTotal    prometheus.Counter
	CancellationsTotal prometheus.Counter
	CompletionsTotal  *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		ScheduledTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talentflow_interviews_scheduled_total",
			Help: "Total number of interviews committed by the scheduler",
		}),
		ConflictsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talentflow_interview_conflicts_total",
			Help: "Total number of schedule attempts rejected for overlap",
		}),
		CancellationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talentflow_interview_cancellations_total",
			Help: "Total number of interview cancellations",
		}),
		CompletionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "talentflow_interview_completions_total",
			Help: "Total number of completed interviews by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncrementScheduled() {
	if m == nil {
		return
	}
	m.ScheduledTotal.Inc()
}

func (m *Metrics) IncrementConflicts() {
	if m == nil {
		return
	}
	m.ConflictsTotal.Inc()
}

func (m *Metrics) IncrementCancellations() {
	if m == nil {
		return
	}
	m.CancellationsTotal.Inc()
}

func (m *Metrics) IncrementCompletions(outcome string) {
	if m == nil {
		return
	}
	m.CompletionsTotal.WithLabelValues(outcome).Inc()
}
