package models

import (
	"time"

	id "talentflow/pkg/domain"
)

// Interval is a half-open time range [Start, End). Half-open semantics make
// back-to-back bookings legal: an interview ending exactly when the next one
// starts does not conflict.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval builds the interval covering durationMinutes from start.
func NewInterval(start time.Time, durationMinutes int) Interval {
	return Interval{Start: start, End: start.Add(time.Duration(durationMinutes) * time.Minute)}
}

// Overlaps reports whether two half-open intervals intersect:
// [s1,e1) and [s2,e2) conflict iff s1 < e2 && s2 < e1.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// FindConflicts returns the subset of existing interviews whose intervals
// overlap proposed. Cancelled records are excluded from the comparison set,
// as is the record identified by exclude (nil-UUID excludes nothing) so a
// reschedule does not conflict with itself.
//
// Pure: no side effects, no I/O, deterministic given its inputs.
func FindConflicts(existing []*InterviewRecord, proposed Interval, exclude id.InterviewID) []*InterviewRecord {
	var conflicts []*InterviewRecord
	for _, record := range existing {
		if record.Status == StatusCancelled {
			continue
		}
		if !exclude.IsNil() && record.ID == exclude {
			continue
		}
		if record.Interval().Overlaps(proposed) {
			conflicts = append(conflicts, record)
		}
	}
	return conflicts
}
