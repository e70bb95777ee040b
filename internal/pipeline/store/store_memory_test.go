package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow/internal/pipeline/models"
	id "talentflow/pkg/domain"
	"talentflow/pkg/platform/faultinject"
	"talentflow/pkg/platform/sentinel"
)

func newRecord(appliedAt time.Time) *models.ApplicationRecord {
	return &models.ApplicationRecord{
		ID:          id.NewApplicationID(),
		CandidateID: id.NewCandidateID(),
		JobID:       id.NewJobID(),
		Stage:       models.StageApplied,
		AppliedAt:   appliedAt,
		UpdatedAt:   appliedAt,
	}
}

func TestInMemoryApplicationStore_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryApplicationStore()
	rec := newRecord(time.Now())

	require.NoError(t, s.Save(ctx, rec))

	found, err := s.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, found.ID)

	byPair, err := s.FindByCandidateAndJob(ctx, rec.CandidateID, rec.JobID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, byPair.ID)
}

func TestInMemoryApplicationStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryApplicationStore()

	_, err := s.FindByID(ctx, id.NewApplicationID())
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))

	_, err = s.FindByCandidateAndJob(ctx, id.NewCandidateID(), id.NewJobID())
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestInMemoryApplicationStore_ReadsDoNotAliasStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryApplicationStore()
	rec := newRecord(time.Now())
	require.NoError(t, s.Save(ctx, rec))

	found, err := s.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	found.Stage = models.StageRejected

	again, err := s.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageApplied, again.Stage, "caller mutation must not leak into store")
}

func TestInMemoryApplicationStore_ListIsStableByAppliedAt(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryApplicationStore()
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	third := newRecord(base.Add(2 * time.Hour))
	first := newRecord(base)
	second := newRecord(base.Add(time.Hour))
	for _, rec := range []*models.ApplicationRecord{third, first, second} {
		require.NoError(t, s.Save(ctx, rec))
	}

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, second.ID, records[1].ID)
	assert.Equal(t, third.ID, records[2].ID)
}

func TestInMemoryApplicationStore_FaultInjection(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryApplicationStore(
		WithFaultInjector(faultinject.NewScript(map[string]int{"application.save": 1})),
	)
	rec := newRecord(time.Now())

	err := s.Save(ctx, rec)
	assert.True(t, errors.Is(err, sentinel.ErrUnavailable))

	require.NoError(t, s.Save(ctx, rec), "script exhausts after one failure")
}
