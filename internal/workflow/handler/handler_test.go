package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow/internal/analytics"
	"talentflow/internal/directory"
	pipelinemodels "talentflow/internal/pipeline/models"
	pipelinestore "talentflow/internal/pipeline/store"
	"talentflow/internal/workflow"
	id "talentflow/pkg/domain"
	"talentflow/pkg/testutil"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	apps := pipelinestore.NewInMemoryApplicationStore()
	candidates := directory.NewInMemoryCandidateDirectory()
	jobs := directory.NewInMemoryJobDirectory()

	job := &directory.Job{ID: id.NewJobID(), Title: "Welder", Client: "Meridian Construction"}
	jobs.Put(job)
	for _, fixture := range []struct {
		name  string
		stage pipelinemodels.Stage
	}{
		{"Amira Hassan", pipelinemodels.StageApplied},
		{"Jonas Berg", pipelinemodels.StageShortlisted},
		{"Priya Nair", pipelinemodels.StageReadyToFly},
	} {
		candidate := &directory.Candidate{ID: id.NewCandidateID(), FullName: fixture.name}
		candidates.Put(candidate)
		require.NoError(t, apps.Save(ctx, &pipelinemodels.ApplicationRecord{
			ID:          id.NewApplicationID(),
			CandidateID: candidate.ID,
			JobID:       job.ID,
			Stage:       fixture.stage,
		}))
	}

	workflowService, err := workflow.New(apps, candidates, jobs, workflow.WithLogger(logger))
	require.NoError(t, err)
	analyticsService, err := analytics.New(apps, analytics.WithLogger(logger))
	require.NoError(t, err)

	router := chi.NewRouter()
	New(workflowService, analyticsService, logger).Register(router)
	return router
}

func TestAnalyticsEndpoint(t *testing.T) {
	router := newRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/analytics"))
	require.Equal(t, http.StatusOK, rr.Code)

	var summary analytics.Summary
	testutil.DecodeJSON(t, rr, &summary)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.ReadyToFly)
	// 1 of 3 converted.
	assert.Equal(t, 33.3, summary.ConversionRate)
}

func TestListByJobEndpoint(t *testing.T) {
	router := newRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/applications?stage=applied"))
	require.Equal(t, http.StatusOK, rr.Code)

	var page workflow.Page[workflow.JobGroup]
	testutil.DecodeJSON(t, rr, &page)
	require.Len(t, page.Items, 1)
	assert.Len(t, page.Items[0].Applications, 1)

	t.Run("unknown stage is a 400", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/applications?stage=onboarding"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("non-numeric page is a 400", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/applications?page=two"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestSearchCandidatesEndpoint(t *testing.T) {
	router := newRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/candidates/search?q=jonas"))
	require.Equal(t, http.StatusOK, rr.Code)

	var page workflow.Page[workflow.CandidateRow]
	testutil.DecodeJSON(t, rr, &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Jonas Berg", page.Items[0].Candidate.FullName)

	t.Run("job title matches every application on the job", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/candidates/search?q=welder"))
		require.Equal(t, http.StatusOK, rr.Code)

		var page workflow.Page[workflow.CandidateRow]
		testutil.DecodeJSON(t, rr, &page)
		assert.Len(t, page.Items, 3)
	})

	t.Run("pagination slices candidates", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/candidates/search?page=2&page_size=2"))
		require.Equal(t, http.StatusOK, rr.Code)

		var page workflow.Page[workflow.CandidateRow]
		testutil.DecodeJSON(t, rr, &page)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, 3, page.TotalItems)
	})
}
