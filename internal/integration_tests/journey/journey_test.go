// Package journey exercises the fully wired HTTP surface: every handler
// mounted behind the shared middleware chain, services talking to real
// in-memory stores.
package journey

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow/internal/analytics"
	"talentflow/internal/audit"
	"talentflow/internal/directory"
	interviewhandler "talentflow/internal/interview/handler"
	interviewmodels "talentflow/internal/interview/models"
	interviewservice "talentflow/internal/interview/service"
	interviewstore "talentflow/internal/interview/store"
	pipelinehandler "talentflow/internal/pipeline/handler"
	pipelinemodels "talentflow/internal/pipeline/models"
	pipelineservice "talentflow/internal/pipeline/service"
	pipelinestore "talentflow/internal/pipeline/store"
	platformmetrics "talentflow/internal/platform/metrics"
	httptransport "talentflow/internal/transport/http"
	"talentflow/internal/workflow"
	workflowhandler "talentflow/internal/workflow/handler"
	id "talentflow/pkg/domain"
	"talentflow/pkg/testutil"
)

// sharedMetrics is created once: metrics.New registers its collectors with
// the global Prometheus registry, which panics on a second registration when
// multiple tests each build an app.
var sharedMetrics = platformmetrics.New()

type app struct {
	router     http.Handler
	apps       *pipelinestore.InMemoryApplicationStore
	auditStore *audit.InMemoryStore
}

func newApp(t *testing.T) *app {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	apps := pipelinestore.NewInMemoryApplicationStore()
	interviews := interviewstore.NewInMemoryInterviewStore()
	auditStore := audit.NewInMemoryStore()
	candidates := directory.NewInMemoryCandidateDirectory()
	jobs := directory.NewInMemoryJobDirectory()

	recorder := audit.NewSyncRecorder(auditStore, logger)

	pipelineSvc, err := pipelineservice.New(apps,
		pipelineservice.WithLogger(logger),
		pipelineservice.WithAuditRecorder(recorder),
	)
	require.NoError(t, err)

	schedulerSvc, err := interviewservice.New(interviews, apps, pipelineSvc,
		interviewservice.WithLogger(logger),
		interviewservice.WithAuditRecorder(recorder),
	)
	require.NoError(t, err)

	analyticsSvc, err := analytics.New(apps, analytics.WithLogger(logger))
	require.NoError(t, err)

	workflowSvc, err := workflow.New(apps, candidates, jobs, workflow.WithLogger(logger))
	require.NoError(t, err)

	router := httptransport.New(logger, sharedMetrics, []httptransport.Registrar{
		interviewhandler.New(schedulerSvc, logger),
		pipelinehandler.New(pipelineSvc, logger),
		workflowhandler.New(workflowSvc, analyticsSvc, logger),
	})
	return &app{router: router, apps: apps, auditStore: auditStore}
}

func (a *app) seedApplication(t *testing.T, stage pipelinemodels.Stage) *pipelinemodels.ApplicationRecord {
	t.Helper()
	record := &pipelinemodels.ApplicationRecord{
		ID:          id.NewApplicationID(),
		CandidateID: id.NewCandidateID(),
		JobID:       id.NewJobID(),
		Stage:       stage,
		AppliedAt:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, a.apps.Save(context.Background(), record))
	return record
}

// TestCandidateJourney walks one application from shortlist to interview
// passed, entirely through the HTTP surface.
func TestCandidateJourney(t *testing.T) {
	a := newApp(t)
	record := a.seedApplication(t, pipelinemodels.StageApplied)

	// Shortlist.
	rr := testutil.DoRequest(a.router, testutil.NewJSONRequest(t, http.MethodPost,
		"/applications/"+record.ID.String()+"/transition",
		map[string]string{"target_stage": "shortlisted"}))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// Book the interview.
	rr = testutil.DoRequest(a.router, testutil.NewJSONRequest(t, http.MethodPost, "/interviews", map[string]any{
		"candidate_id": record.CandidateID.String(),
		"job_id":       record.JobID.String(),
		"scheduled_at": "2026-03-10T10:00:00Z",
		"interviewer":  "m.keller",
		"location":     "office",
	}))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var interview interviewmodels.InterviewRecord
	testutil.DecodeJSON(t, rr, &interview)

	// Mark the pipeline stage to match the booking.
	rr = testutil.DoRequest(a.router, testutil.NewJSONRequest(t, http.MethodPost,
		"/applications/"+record.ID.String()+"/transition",
		map[string]string{"target_stage": "interview-scheduled"}))
	require.Equal(t, http.StatusOK, rr.Code)

	// Complete: the stage advances as a side effect.
	rr = testutil.DoRequest(a.router, testutil.NewJSONRequest(t, http.MethodPost,
		"/interviews/"+interview.ID.String()+"/complete",
		map[string]string{"outcome": "passed"}))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	final, err := a.apps.FindByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, pipelinemodels.StageInterviewPassed, final.Stage)
	assert.NotNil(t, final.ShortlistedAt)
	assert.NotNil(t, final.InterviewedAt)

	// Every step left an audit event.
	appEvents, err := a.auditStore.ListBySubject(context.Background(), record.ID.String())
	require.NoError(t, err)
	assert.Len(t, appEvents, 3, "shortlist, schedule stage, completion advance")
	interviewEvents, err := a.auditStore.ListBySubject(context.Background(), interview.ID.String())
	require.NoError(t, err)
	assert.Len(t, interviewEvents, 2, "booking and completion")

	// The analytics aggregate sees the final stage.
	rr = testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodGet, "/analytics"))
	require.Equal(t, http.StatusOK, rr.Code)
	var summary analytics.Summary
	testutil.DecodeJSON(t, rr, &summary)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.StageCounts[pipelinemodels.StageInterviewPassed])
}

// TestConflictSurfacesThroughTheStack verifies a double booking travels from
// the conflict detector to a 409 with the blocking interval attached.
func TestConflictSurfacesThroughTheStack(t *testing.T) {
	a := newApp(t)
	record := a.seedApplication(t, pipelinemodels.StageShortlisted)

	payload := map[string]any{
		"candidate_id": record.CandidateID.String(),
		"job_id":       record.JobID.String(),
		"scheduled_at": "2026-03-11T10:00:00Z",
		"interviewer":  "m.keller",
		"location":     "video",
	}
	rr := testutil.DoRequest(a.router, testutil.NewJSONRequest(t, http.MethodPost, "/interviews", payload))
	require.Equal(t, http.StatusCreated, rr.Code)

	payload["scheduled_at"] = "2026-03-11T10:45:00Z"
	rr = testutil.DoRequest(a.router, testutil.NewJSONRequest(t, http.MethodPost, "/interviews", payload))
	require.Equal(t, http.StatusConflict, rr.Code)

	var body struct {
		Error   string                             `json:"error"`
		Details []*interviewmodels.InterviewRecord `json:"details"`
	}
	testutil.DecodeJSON(t, rr, &body)
	assert.Equal(t, "conflict", body.Error)
	require.Len(t, body.Details, 1)
}

// TestHealthEndpoint verifies the operational surface is mounted.
func TestHealthEndpoint(t *testing.T) {
	a := newApp(t)
	rr := testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	assert.Equal(t, http.StatusOK, rr.Code)
}
