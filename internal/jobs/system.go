package jobs

import (
	"context"

	"github.com/google/uuid"

	"github.com/docflow/docflow/pkg/lifecycle"
)

// System defines the public contract for job domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Start registers the lifecycle context that bounds background
	// pipeline tasks and replays persisted snapshots into the registry.
	Start(lc *lifecycle.Coordinator) error

	// Submit admits a document for processing. It rejects unsupported
	// file types and submissions beyond the concurrency limit.
	Submit(ctx context.Context, cmd SubmitCommand) (*UploadResponse, error)

	// Status returns the job's current progress.
	Status(id uuid.UUID) (*StatusResponse, error)

	// Result returns the terminal outcome of a job. Jobs that have not
	// finished report ErrStillPending or ErrStillProcessing.
	Result(ctx context.Context, id uuid.UUID) (*Result, error)

	// Cancel fails a job that has not started processing yet.
	Cancel(ctx context.Context, id uuid.UUID) (*Result, error)

	// List returns summaries of all jobs with aggregate counts.
	List() ListResult
}

// SubmitCommand carries the upload data for a new job.
type SubmitCommand struct {
	Data        []byte
	Filename    string
	ContentType string
}

// SnapshotStore persists terminal job results so they survive beyond the
// in-memory registry.
type SnapshotStore interface {
	Save(ctx context.Context, result *Result) error
	Find(ctx context.Context, id uuid.UUID) (*Result, error)
	// List returns every persisted result, newest first.
	List(ctx context.Context) ([]*Result, error)
}
