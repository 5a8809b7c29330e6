// Package snapshots persists terminal job results as JSON documents in
// PostgreSQL, giving results a durable home outside the in-memory registry.
package snapshots

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/jobs"
	"github.com/docflow/docflow/pkg/repository"
)

type store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a snapshot store backed by the given connection pool.
func New(db *sql.DB, logger *slog.Logger) jobs.SnapshotStore {
	return &store{
		db:     db,
		logger: logger.With("system", "snapshots"),
	}
}

// Save upserts the result keyed by its document id. Re-saving a job, such
// as a cancellation racing a late completion, keeps the latest snapshot.
func (s *store) Save(ctx context.Context, result *jobs.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO job_snapshots (job_id, status, snapshot)
		VALUES ($1, $2, $3)
		ON CONFLICT (job_id) DO UPDATE
		SET status = EXCLUDED.status,
		    snapshot = EXCLUDED.snapshot,
		    updated_at = now()`

	if err := repository.ExecExpectOne(ctx, s.db, query, result.DocumentID, string(result.Status), payload); err != nil {
		return fmt.Errorf("persist snapshot %s: %w", result.DocumentID, err)
	}

	return nil
}

// List loads every persisted result, newest first. The job system replays
// these into its registry on startup so terminal results survive restarts.
func (s *store) List(ctx context.Context) ([]*jobs.Result, error) {
	query := `SELECT snapshot FROM job_snapshots ORDER BY created_at DESC`

	payloads, err := repository.QueryMany(ctx, s.db, query, nil,
		func(row repository.Scanner) ([]byte, error) {
			var data []byte
			err := row.Scan(&data)
			return data, err
		})
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	results := make([]*jobs.Result, 0, len(payloads))
	for _, payload := range payloads {
		var result jobs.Result
		if err := json.Unmarshal(payload, &result); err != nil {
			s.logger.Error("skipping undecodable snapshot", "error", err)
			continue
		}
		results = append(results, &result)
	}

	return results, nil
}

// Find loads a persisted result. Missing snapshots map to the job domain's
// not-found error.
func (s *store) Find(ctx context.Context, id uuid.UUID) (*jobs.Result, error) {
	query := `SELECT snapshot FROM job_snapshots WHERE job_id = $1`

	payload, err := repository.QueryOne(ctx, s.db, query, []any{id},
		func(row repository.Scanner) ([]byte, error) {
			var data []byte
			err := row.Scan(&data)
			return data, err
		})
	if err != nil {
		return nil, repository.MapError(err, jobs.ErrNotFound, err)
	}

	var result jobs.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", id, err)
	}

	return &result, nil
}
