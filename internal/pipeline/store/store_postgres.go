package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"talentflow/internal/pipeline/models"
	id "talentflow/pkg/domain"
	"talentflow/pkg/platform/sentinel"
)

// PostgresApplicationStore persists ApplicationRecords in PostgreSQL.
type PostgresApplicationStore struct {
	db *sql.DB
}

func NewPostgresApplicationStore(db *sql.DB) *PostgresApplicationStore {
	return &PostgresApplicationStore{db: db}
}

// Schema returns the DDL the store expects. Applied by the integration test
// harness and by deploy migrations.
func Schema() string {
	return `
CREATE TABLE IF NOT EXISTS applications (
    id             UUID PRIMARY KEY,
    candidate_id   UUID NOT NULL,
    job_id         UUID NOT NULL,
    stage          TEXT NOT NULL,
    applied_at     TIMESTAMPTZ NOT NULL,
    shortlisted_at TIMESTAMPTZ,
    interviewed_at TIMESTAMPTZ,
    decision_at    TIMESTAMPTZ,
    notes          TEXT NOT NULL DEFAULT '',
    updated_at     TIMESTAMPTZ NOT NULL,
    UNIQUE (candidate_id, job_id)
);
CREATE INDEX IF NOT EXISTS applications_stage_idx ON applications (stage);
`
}

func (s *PostgresApplicationStore) Save(ctx context.Context, record *models.ApplicationRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications
			(id, candidate_id, job_id, stage, applied_at, shortlisted_at, interviewed_at, decision_at, notes, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			stage = EXCLUDED.stage,
			shortlisted_at = EXCLUDED.shortlisted_at,
			interviewed_at = EXCLUDED.interviewed_at,
			decision_at = EXCLUDED.decision_at,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`,
		record.ID.String(), record.CandidateID.String(), record.JobID.String(),
		record.Stage.String(), record.AppliedAt,
		nullTime(record.ShortlistedAt), nullTime(record.InterviewedAt), nullTime(record.DecisionAt),
		record.Notes, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save application: %w", err)
	}
	return nil
}

const applicationColumns = `id, candidate_id, job_id, stage, applied_at, shortlisted_at, interviewed_at, decision_at, notes, updated_at`

func (s *PostgresApplicationStore) FindByID(ctx context.Context, appID id.ApplicationID) (*models.ApplicationRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, appID.String())
	record, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return record, nil
}

func (s *PostgresApplicationStore) FindByCandidateAndJob(ctx context.Context, candidateID id.CandidateID, jobID id.JobID) (*models.ApplicationRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE candidate_id = $1 AND job_id = $2`,
		candidateID.String(), jobID.String())
	record, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find application by candidate and job: %w", err)
	}
	return record, nil
}

func (s *PostgresApplicationStore) List(ctx context.Context) ([]*models.ApplicationRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications ORDER BY applied_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var records []*models.ApplicationRecord
	for rows.Next() {
		record, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.ApplicationRecord, error) {
	var (
		record                                  models.ApplicationRecord
		appID, candidateID, jobID, stage        string
		shortlistedAt, interviewedAt, decisionAt sql.NullTime
	)
	if err := row.Scan(&appID, &candidateID, &jobID, &stage, &record.AppliedAt,
		&shortlistedAt, &interviewedAt, &decisionAt, &record.Notes, &record.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if record.ID, err = id.ParseApplicationID(appID); err != nil {
		return nil, err
	}
	if record.CandidateID, err = id.ParseCandidateID(candidateID); err != nil {
		return nil, err
	}
	if record.JobID, err = id.ParseJobID(jobID); err != nil {
		return nil, err
	}
	record.Stage = models.Stage(stage)
	record.ShortlistedAt = timePtr(shortlistedAt)
	record.InterviewedAt = timePtr(interviewedAt)
	record.DecisionAt = timePtr(decisionAt)
	return &record, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
