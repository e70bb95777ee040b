package directory

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	id "talentflow/pkg/domain"
)

const (
	candidateKeyPrefix = "dir:candidate:"
	jobKeyPrefix       = "dir:job:"
)

// DefaultCacheTTL bounds staleness of directory lookups. Master data
// changes rarely; a short TTL keeps the window small without hammering the
// backing directory.
const DefaultCacheTTL = 5 * time.Minute

// CachedCandidateDirectory is a read-through cache over a backing
// CandidateDirectory. Cache failures degrade to the backing lookup: Redis
// being down slows reads, it never fails them.
type CachedCandidateDirectory struct {
	inner  CandidateDirectory
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedCandidateDirectory(inner CandidateDirectory, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedCandidateDirectory {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedCandidateDirectory{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (d *CachedCandidateDirectory) FindCandidate(ctx context.Context, candidateID id.CandidateID) (*Candidate, error) {
	key := candidateKeyPrefix + candidateID.String()

	payload, err := d.client.Get(ctx, key).Bytes()
	if err == nil {
		var candidate Candidate
		if unmarshalErr := json.Unmarshal(payload, &candidate); unmarshalErr == nil {
			return &candidate, nil
		}
		// Corrupt entry, fall through and repopulate.
	} else if !errors.Is(err, redis.Nil) {
		d.logger.WarnContext(ctx, "candidate cache read failed", "key", key, "error", err)
	}

	candidate, err := d.inner.FindCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(candidate); marshalErr == nil {
		if setErr := d.client.Set(ctx, key, payload, d.ttl).Err(); setErr != nil {
			d.logger.WarnContext(ctx, "candidate cache write failed", "key", key, "error", setErr)
		}
	}
	return candidate, nil
}

// ListCandidates always hits the backing directory: list results are too
// volatile to cache whole and the workflow views page over them anyway.
func (d *CachedCandidateDirectory) ListCandidates(ctx context.Context) ([]*Candidate, error) {
	return d.inner.ListCandidates(ctx)
}

// Invalidate drops a candidate's cache entry after a master-data update.
func (d *CachedCandidateDirectory) Invalidate(ctx context.Context, candidateID id.CandidateID) error {
	return d.client.Del(ctx, candidateKeyPrefix+candidateID.String()).Err()
}

// CachedJobDirectory is the job-side counterpart of
// CachedCandidateDirectory.
type CachedJobDirectory struct {
	inner  JobDirectory
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedJobDirectory(inner JobDirectory, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedJobDirectory {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedJobDirectory{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (d *CachedJobDirectory) FindJob(ctx context.Context, jobID id.JobID) (*Job, error) {
	key := jobKeyPrefix + jobID.String()

	payload, err := d.client.Get(ctx, key).Bytes()
	if err == nil {
		var job Job
		if unmarshalErr := json.Unmarshal(payload, &job); unmarshalErr == nil {
			return &job, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		d.logger.WarnContext(ctx, "job cache read failed", "key", key, "error", err)
	}

	job, err := d.inner.FindJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(job); marshalErr == nil {
		if setErr := d.client.Set(ctx, key, payload, d.ttl).Err(); setErr != nil {
			d.logger.WarnContext(ctx, "job cache write failed", "key", key, "error", setErr)
		}
	}
	return job, nil
}

func (d *CachedJobDirectory) ListJobs(ctx context.Context) ([]*Job, error) {
	return d.inner.ListJobs(ctx)
}

func (d *CachedJobDirectory) Invalidate(ctx context.Context, jobID id.JobID) error {
	return d.client.Del(ctx, jobKeyPrefix+jobID.String()).Err()
}
