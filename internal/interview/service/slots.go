package service

import (
	"context"
	"time"

	"talentflow/internal/interview/models"
	id "talentflow/pkg/domain"
	dErrors "talentflow/pkg/domain-errors"
	"talentflow/pkg/platform/retry"
)

// Slot is one grid cell of the availability view.
type Slot struct {
	Start     time.Time `json:"start"`
	Available bool      `json:"available"`
}

// AvailableSlots returns the interviewer's booking grid for a calendar day:
// one slot per SlotStepMinutes between the visible hours, marked unavailable
// when a non-cancelled interview starts exactly at the slot time.
//
// The grid matches on exact start times, not interval overlap: an interview
// booked off-grid or longer than one step will not shade neighbouring cells.
// That keeps the view a coarse at-a-glance summary; the Schedule conflict
// check remains the authority on what can actually be booked.
func (s *Service) AvailableSlots(ctx context.Context, day time.Time, interviewer string) ([]Slot, error) {
	ctx, span := s.tracer.Start(ctx, "interview.available_slots")
	defer span.End()

	if day.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "day is required")
	}

	var booked []*models.InterviewRecord
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var listErr error
		booked, listErr = s.store.ListOnDate(ctx, day, interviewer)
		return listErr
	})
	if err != nil {
		return nil, err
	}

	// Key on the requested day's location so a booking stored with a
	// different zone offset still matches the slot at the same instant.
	taken := make(map[time.Time]bool, len(booked))
	for _, record := range booked {
		if record.Status == models.StatusCancelled {
			continue
		}
		taken[record.ScheduledAt.In(day.Location()).Truncate(time.Minute)] = true
	}

	step := time.Duration(s.config.SlotStepMinutes) * time.Minute
	start := time.Date(day.Year(), day.Month(), day.Day(), s.config.VisibleHourStart, 0, 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month(), day.Day(), s.config.VisibleHourEnd, 0, 0, 0, day.Location())

	var slots []Slot
	for at := start; at.Before(end); at = at.Add(step) {
		slots = append(slots, Slot{Start: at, Available: !taken[at]})
	}
	return slots, nil
}

// BulkScheduleResult reports the fate of one request in a batch.
type BulkScheduleResult struct {
	CandidateID id.CandidateID          `json:"candidate_id"`
	Interview   *models.InterviewRecord `json:"interview,omitempty"`
	Err         error                   `json:"-"`
}

// BulkSchedule books a batch sequentially, best-effort: each request is
// scheduled independently and a conflict or validation failure on one never
// rolls back or skips the others. Earlier bookings in the batch are part of
// the comparison set for later ones. Context cancellation stops the batch;
// requests not yet attempted carry the context error.
func (s *Service) BulkSchedule(ctx context.Context, reqs []ScheduleRequest) []BulkScheduleResult {
	ctx, span := s.tracer.Start(ctx, "interview.bulk_schedule")
	defer span.End()

	results := make([]BulkScheduleResult, 0, len(reqs))
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			results = append(results, BulkScheduleResult{CandidateID: req.CandidateID, Err: err})
			continue
		}
		record, err := s.Schedule(ctx, req)
		results = append(results, BulkScheduleResult{CandidateID: req.CandidateID, Interview: record, Err: err})
	}
	return results
}
