package audit

import (
	"context"
	"database/sql"
	"fmt"

	id "talentflow/pkg/domain"
)

// PostgresStore persists the audit trail in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema returns the DDL the store expects.
func Schema() string {
	return `
CREATE TABLE IF NOT EXISTS audit_events (
    seq          BIGSERIAL PRIMARY KEY,
    ts           TIMESTAMPTZ NOT NULL,
    actor        TEXT NOT NULL,
    action       TEXT NOT NULL,
    candidate_id UUID NOT NULL,
    job_id       UUID,
    subject      TEXT NOT NULL,
    from_value   TEXT NOT NULL DEFAULT '',
    to_value     TEXT NOT NULL DEFAULT '',
    detail       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS audit_events_subject_idx ON audit_events (subject);
`
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	var jobID any
	if !event.JobID.IsNil() {
		jobID = event.JobID.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (ts, actor, action, candidate_id, job_id, subject, from_value, to_value, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.Timestamp, event.Actor, string(event.Action),
		event.CandidateID.String(), jobID, event.Subject,
		event.From, event.To, event.Detail,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subject string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, actor, action, candidate_id, job_id, subject, from_value, to_value, detail
		FROM audit_events WHERE subject = $1 ORDER BY seq`, subject)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, actor, action, candidate_id, job_id, subject, from_value, to_value, detail
		FROM audit_events ORDER BY seq DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent audit events: %w", err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}
	// Restore chronological order.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var (
			event                 Event
			action, candidateID   string
			jobID                 sql.NullString
		)
		if err := rows.Scan(&event.Timestamp, &event.Actor, &action, &candidateID,
			&jobID, &event.Subject, &event.From, &event.To, &event.Detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Action = Action(action)
		parsed, err := id.ParseCandidateID(candidateID)
		if err != nil {
			return nil, err
		}
		event.CandidateID = parsed
		if jobID.Valid {
			parsedJob, err := id.ParseJobID(jobID.String)
			if err != nil {
				return nil, err
			}
			event.JobID = parsedJob
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
