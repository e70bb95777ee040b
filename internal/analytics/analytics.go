// Package analytics computes pipeline-wide stage counts and conversion
// metrics. The aggregate always covers the complete application set: display
// filters belong to the workflow views and never narrow these numbers.
package analytics

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	pipelinemetrics "talentflow/internal/pipeline/metrics"
	"talentflow/internal/pipeline/models"
	"talentflow/pkg/platform/retry"
)

// ApplicationLister is the read port over the application store.
type ApplicationLister interface {
	List(ctx context.Context) ([]*models.ApplicationRecord, error)
}

// Summary is the pipeline-wide aggregate.
type Summary struct {
	StageCounts    map[models.Stage]int `json:"stage_counts"`
	Total          int                  `json:"total"`
	ReadyToFly     int                  `json:"ready_to_fly"`
	Departed       int                  `json:"departed"`
	ConversionRate float64              `json:"conversion_rate"`
}

// Aggregate computes the summary over records. Pure; every defined stage
// appears in StageCounts even at zero, so consumers can render the full
// funnel without probing for missing keys.
func Aggregate(records []*models.ApplicationRecord) Summary {
	counts := make(map[models.Stage]int, len(models.PipelineStages)+1)
	for _, stage := range models.PipelineStages {
		counts[stage] = 0
	}
	counts[models.StageRejected] = 0

	for _, record := range records {
		counts[record.Stage]++
	}

	summary := Summary{
		StageCounts: counts,
		Total:       len(records),
		ReadyToFly:  counts[models.StageReadyToFly],
		Departed:    counts[models.StageDeparted],
	}
	if summary.Total > 0 {
		rate := float64(summary.ReadyToFly+summary.Departed) / float64(summary.Total) * 100
		summary.ConversionRate = math.Round(rate*10) / 10
	}
	return summary
}

type Service struct {
	store   ApplicationLister
	logger  *slog.Logger
	metrics *pipelinemetrics.Metrics
	retry   retry.Config
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *pipelinemetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithRetryConfig(cfg retry.Config) Option {
	return func(s *Service) { s.retry = cfg }
}

func New(store ApplicationLister, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("application lister is required")
	}
	svc := &Service{
		store:  store,
		logger: slog.Default(),
		retry:  retry.DefaultConfig(),
		tracer: otel.Tracer("talentflow/analytics"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Snapshot loads the full application set and aggregates it. Stage gauges
// are refreshed as a side effect so the dashboard and the API agree.
func (s *Service) Snapshot(ctx context.Context) (Summary, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.snapshot")
	defer span.End()

	var records []*models.ApplicationRecord
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var listErr error
		records, listErr = s.store.List(ctx)
		return listErr
	})
	if err != nil {
		return Summary{}, err
	}

	summary := Aggregate(records)
	for stage, count := range summary.StageCounts {
		s.metrics.SetStageApplications(string(stage), count)
	}
	return summary, nil
}
