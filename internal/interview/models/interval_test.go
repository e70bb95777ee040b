package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "talentflow/pkg/domain"
)

var base = time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

func interview(start time.Time, minutes int, status InterviewStatus) *InterviewRecord {
	return &InterviewRecord{
		ID:              id.NewInterviewID(),
		CandidateID:     id.NewCandidateID(),
		ScheduledAt:     start,
		DurationMinutes: minutes,
		Status:          status,
	}
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Interval
		overlaps bool
	}{
		{
			name:     "identical intervals conflict",
			a:        NewInterval(base, 60),
			b:        NewInterval(base, 60),
			overlaps: true,
		},
		{
			name:     "partial overlap conflicts",
			a:        NewInterval(base, 60),
			b:        NewInterval(base.Add(30*time.Minute), 60),
			overlaps: true,
		},
		{
			name:     "containment conflicts",
			a:        NewInterval(base, 120),
			b:        NewInterval(base.Add(30*time.Minute), 30),
			overlaps: true,
		},
		{
			name:     "back-to-back does not conflict",
			a:        NewInterval(base, 60),
			b:        NewInterval(base.Add(60*time.Minute), 60),
			overlaps: false,
		},
		{
			name:     "disjoint does not conflict",
			a:        NewInterval(base, 60),
			b:        NewInterval(base.Add(3*time.Hour), 60),
			overlaps: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.overlaps, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestFindConflicts(t *testing.T) {
	t.Run("reports the overlapping record", func(t *testing.T) {
		existing := interview(base, 60, StatusScheduled)
		proposed := NewInterval(base.Add(30*time.Minute), 60)

		conflicts := FindConflicts([]*InterviewRecord{existing}, proposed, id.InterviewID{})
		require.Len(t, conflicts, 1)
		assert.Equal(t, existing.ID, conflicts[0].ID)
	})

	t.Run("cancelled interviews are excluded", func(t *testing.T) {
		cancelled := interview(base, 60, StatusCancelled)
		proposed := NewInterval(base, 60)

		conflicts := FindConflicts([]*InterviewRecord{cancelled}, proposed, id.InterviewID{})
		assert.Empty(t, conflicts)
	})

	t.Run("completed and no-show interviews still block", func(t *testing.T) {
		completed := interview(base, 60, StatusCompleted)
		noShow := interview(base.Add(2*time.Hour), 60, StatusNoShow)
		proposed := NewInterval(base.Add(30*time.Minute), 3*60)

		conflicts := FindConflicts([]*InterviewRecord{completed, noShow}, proposed, id.InterviewID{})
		assert.Len(t, conflicts, 2)
	})

	t.Run("excluded id is skipped for reschedules", func(t *testing.T) {
		existing := interview(base, 60, StatusScheduled)
		proposed := NewInterval(base.Add(15*time.Minute), 60)

		conflicts := FindConflicts([]*InterviewRecord{existing}, proposed, existing.ID)
		assert.Empty(t, conflicts)
	})

	t.Run("boundary slots are free", func(t *testing.T) {
		existing := interview(base, 60, StatusScheduled)
		proposed := NewInterval(base.Add(60*time.Minute), 60)

		conflicts := FindConflicts([]*InterviewRecord{existing}, proposed, id.InterviewID{})
		assert.Empty(t, conflicts)
	})
}
