package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"talentflow/internal/interview/models"
	id "talentflow/pkg/domain"
	"talentflow/pkg/platform/sentinel"
)

// PostgresInterviewStore persists InterviewRecords in PostgreSQL.
type PostgresInterviewStore struct {
	db *sql.DB
}

func NewPostgresInterviewStore(db *sql.DB) *PostgresInterviewStore {
	return &PostgresInterviewStore{db: db}
}

// Schema returns the DDL the store expects.
func Schema() string {
	return `
CREATE TABLE IF NOT EXISTS interviews (
    id               UUID PRIMARY KEY,
    candidate_id     UUID NOT NULL,
    job_id           UUID NOT NULL,
    application_id   UUID NOT NULL,
    scheduled_at     TIMESTAMPTZ NOT NULL,
    duration_minutes INT NOT NULL,
    interviewer      TEXT NOT NULL,
    location         TEXT NOT NULL,
    status           TEXT NOT NULL,
    result           TEXT NOT NULL DEFAULT '',
    cancel_reason    TEXT NOT NULL DEFAULT '',
    notes            TEXT NOT NULL DEFAULT '',
    created_at       TIMESTAMPTZ NOT NULL,
    updated_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS interviews_candidate_idx ON interviews (candidate_id);
CREATE INDEX IF NOT EXISTS interviews_scheduled_at_idx ON interviews (scheduled_at);
`
}

const interviewColumns = `id, candidate_id, job_id, application_id, scheduled_at, duration_minutes,
	interviewer, location, status, result, cancel_reason, notes, created_at, updated_at`

func (s *PostgresInterviewStore) Save(ctx context.Context, record *models.InterviewRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO interviews
			(id, candidate_id, job_id, application_id, scheduled_at, duration_minutes,
			 interviewer, location, status, result, cancel_reason, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			scheduled_at = EXCLUDED.scheduled_at,
			duration_minutes = EXCLUDED.duration_minutes,
			interviewer = EXCLUDED.interviewer,
			location = EXCLUDED.location,
			status = EXCLUDED.status,
			result = EXCLUDED.result,
			cancel_reason = EXCLUDED.cancel_reason,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`,
		record.ID.String(), record.CandidateID.String(), record.JobID.String(), record.ApplicationID.String(),
		record.ScheduledAt, record.DurationMinutes,
		record.Interviewer, record.Location.String(), record.Status.String(),
		record.Result.String(), record.CancelReason, record.Notes,
		record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save interview: %w", err)
	}
	return nil
}

func (s *PostgresInterviewStore) FindByID(ctx context.Context, interviewID id.InterviewID) (*models.InterviewRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, interviewID.String())
	record, err := scanInterview(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find interview: %w", err)
	}
	return record, nil
}

func (s *PostgresInterviewStore) ListByCandidate(ctx context.Context, candidateID id.CandidateID) ([]*models.InterviewRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE candidate_id = $1 ORDER BY scheduled_at, id`,
		candidateID.String())
	if err != nil {
		return nil, fmt.Errorf("list interviews by candidate: %w", err)
	}
	defer rows.Close()
	return collectInterviews(rows)
}

func (s *PostgresInterviewStore) ListOnDate(ctx context.Context, day time.Time, interviewer string) ([]*models.InterviewRecord, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)
	query := `SELECT ` + interviewColumns + ` FROM interviews
		WHERE scheduled_at >= $1 AND scheduled_at < $2`
	args := []any{dayStart, dayEnd}
	if interviewer != "" {
		query += ` AND interviewer = $3`
		args = append(args, interviewer)
	}
	query += ` ORDER BY scheduled_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list interviews on date: %w", err)
	}
	defer rows.Close()
	return collectInterviews(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInterview(row rowScanner) (*models.InterviewRecord, error) {
	var (
		record                                     models.InterviewRecord
		interviewID, candidateID, jobID, appID     string
		location, status, result                   string
	)
	if err := row.Scan(&interviewID, &candidateID, &jobID, &appID,
		&record.ScheduledAt, &record.DurationMinutes,
		&record.Interviewer, &location, &status, &result,
		&record.CancelReason, &record.Notes, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if record.ID, err = id.ParseInterviewID(interviewID); err != nil {
		return nil, err
	}
	if record.CandidateID, err = id.ParseCandidateID(candidateID); err != nil {
		return nil, err
	}
	if record.JobID, err = id.ParseJobID(jobID); err != nil {
		return nil, err
	}
	if record.ApplicationID, err = id.ParseApplicationID(appID); err != nil {
		return nil, err
	}
	record.Location = models.Location(location)
	record.Status = models.InterviewStatus(status)
	record.Result = models.Outcome(result)
	return &record, nil
}

func collectInterviews(rows *sql.Rows) ([]*models.InterviewRecord, error) {
	var records []*models.InterviewRecord
	for rows.Next() {
		record, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interviews: %w", err)
	}
	return records, nil
}
