package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"talentflow/internal/directory"
	pipelinemodels "talentflow/internal/pipeline/models"
	id "talentflow/pkg/domain"
	dErrors "talentflow/pkg/domain-errors"
	"talentflow/pkg/platform/retry"
)

// DefaultPageSize applies when a request omits or zeroes the page size.
const DefaultPageSize = 20

// ApplicationLister is the read port over the application store.
type ApplicationLister interface {
	List(ctx context.Context) ([]*pipelinemodels.ApplicationRecord, error)
}

type Service struct {
	store      ApplicationLister
	candidates directory.CandidateDirectory
	jobs       directory.JobDirectory
	logger     *slog.Logger
	retry      retry.Config
	tracer     trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithRetryConfig(cfg retry.Config) Option {
	return func(s *Service) { s.retry = cfg }
}

func New(store ApplicationLister, candidates directory.CandidateDirectory, jobs directory.JobDirectory, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("application lister is required")
	}
	if candidates == nil {
		return nil, errors.New("candidate directory is required")
	}
	if jobs == nil {
		return nil, errors.New("job directory is required")
	}
	svc := &Service{
		store:      store,
		candidates: candidates,
		jobs:       jobs,
		logger:     slog.Default(),
		retry:      retry.DefaultConfig(),
		tracer:     otel.Tracer("talentflow/workflow"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// ListByJob returns applications at stage (all stages when stage is empty),
// grouped per job. Pagination indexes into the list of job groups, not into
// individual applications: one page shows whole jobs.
func (s *Service) ListByJob(ctx context.Context, stage pipelinemodels.Stage, page, pageSize int) (Page[JobGroup], error) {
	ctx, span := s.tracer.Start(ctx, "workflow.list_by_job")
	defer span.End()

	page, pageSize, err := normalizePaging(page, pageSize)
	if err != nil {
		return Page[JobGroup]{}, err
	}
	if stage != "" && !stage.IsValid() {
		return Page[JobGroup]{}, dErrors.New(dErrors.CodeInvalidInput, "unknown stage: "+string(stage))
	}

	rows, err := s.loadRows(ctx, stage)
	if err != nil {
		return Page[JobGroup]{}, err
	}

	grouped := make(map[id.JobID][]CandidateRow)
	for _, row := range rows {
		grouped[row.Application.JobID] = append(grouped[row.Application.JobID], row)
	}

	groups := make([]JobGroup, 0, len(grouped))
	for jobID, applications := range grouped {
		group := JobGroup{JobID: jobID, Applications: applications}
		if job, findErr := s.jobs.FindJob(ctx, jobID); findErr == nil {
			group.Job = job
		}
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool {
		ti, tj := groupTitle(groups[i]), groupTitle(groups[j])
		if ti != tj {
			return ti < tj
		}
		return groups[i].JobID.String() < groups[j].JobID.String()
	})

	return paginate(groups, page, pageSize), nil
}

// SearchCandidates returns the flat candidate list, narrowed by stage when
// non-empty and by query when non-empty. The query is a case-insensitive
// substring match over phone, passport number, full name, email, and job
// title. Pagination indexes into the list of candidates.
func (s *Service) SearchCandidates(ctx context.Context, stage pipelinemodels.Stage, query string, page, pageSize int) (Page[CandidateRow], error) {
	ctx, span := s.tracer.Start(ctx, "workflow.search_candidates")
	defer span.End()

	page, pageSize, err := normalizePaging(page, pageSize)
	if err != nil {
		return Page[CandidateRow]{}, err
	}
	if stage != "" && !stage.IsValid() {
		return Page[CandidateRow]{}, dErrors.New(dErrors.CodeInvalidInput, "unknown stage: "+string(stage))
	}

	rows, err := s.loadRows(ctx, stage)
	if err != nil {
		return Page[CandidateRow]{}, err
	}

	if needle := strings.ToLower(strings.TrimSpace(query)); needle != "" {
		matched := rows[:0]
		for _, row := range rows {
			if rowMatches(row, needle) {
				matched = append(matched, row)
			}
		}
		rows = matched
	}

	sort.Slice(rows, func(i, j int) bool {
		ni, nj := rowName(rows[i]), rowName(rows[j])
		if ni != nj {
			return ni < nj
		}
		return rows[i].Application.ID.String() < rows[j].Application.ID.String()
	})

	return paginate(rows, page, pageSize), nil
}

// loadRows reads every application, applies the stage filter, and joins
// directory data. Missing directory entries leave the display fields empty
// rather than failing the view.
func (s *Service) loadRows(ctx context.Context, stage pipelinemodels.Stage) ([]CandidateRow, error) {
	var records []*pipelinemodels.ApplicationRecord
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var listErr error
		records, listErr = s.store.List(ctx)
		return listErr
	})
	if err != nil {
		return nil, err
	}

	rows := make([]CandidateRow, 0, len(records))
	for _, record := range records {
		if stage != "" && record.Stage != stage {
			continue
		}
		row := CandidateRow{Application: record}
		if candidate, findErr := s.candidates.FindCandidate(ctx, record.CandidateID); findErr == nil {
			row.Candidate = candidate
		}
		if job, findErr := s.jobs.FindJob(ctx, record.JobID); findErr == nil {
			row.JobTitle = job.Title
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func rowMatches(row CandidateRow, needle string) bool {
	if strings.Contains(strings.ToLower(row.JobTitle), needle) {
		return true
	}
	if row.Candidate == nil {
		return false
	}
	for _, field := range []string{
		row.Candidate.Phone,
		row.Candidate.PassportNumber,
		row.Candidate.FullName,
		row.Candidate.Email,
	} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func rowName(row CandidateRow) string {
	if row.Candidate != nil {
		return strings.ToLower(row.Candidate.FullName)
	}
	return ""
}

func groupTitle(group JobGroup) string {
	if group.Job != nil {
		return strings.ToLower(group.Job.Title)
	}
	return ""
}

func normalizePaging(page, pageSize int) (int, int, error) {
	if page < 0 || pageSize < 0 {
		return 0, 0, dErrors.New(dErrors.CodeInvalidInput, "page and page size must not be negative")
	}
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	return page, pageSize, nil
}
