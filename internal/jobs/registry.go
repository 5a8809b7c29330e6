package jobs

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/pipeline"
)

// Registry is the in-memory job table. All observable status transitions
// flow through its methods under one lock, so concurrent pollers never see
// a job move backwards and cancellation never races a starting pipeline.
type Registry struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job
}

// NewRegistry creates an empty job registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[uuid.UUID]*Job)}
}

// Insert registers a new job. The caller owns the Job value until Insert
// returns; afterwards the registry does.
func (r *Registry) Insert(job *Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
}

// Get returns a copy of the job. The copy shares the Result pointer, which
// is written once before the job turns terminal and never mutated after.
func (r *Registry) Get(id uuid.UUID) (Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return *job, nil
}

// SetStatus advances a job's status. Transitions that would move the job
// backwards or out of a terminal status are ignored, which keeps progress
// monotonic even if a late pipeline notification lands after cancellation.
func (r *Registry) SetStatus(id uuid.UUID, status pipeline.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return
	}
	if job.Status.Terminal() || status.Rank() <= job.Status.Rank() {
		return
	}
	job.Status = status
}

// Begin transitions a pending job to processing. It reports false when the
// job is gone or no longer pending, which is how the pipeline task learns
// it lost the race to a cancellation.
func (r *Registry) Begin(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status != pipeline.StatusPending {
		return false
	}
	job.Status = pipeline.StatusProcessing
	return true
}

// CancelPending fails a job that has not started processing. Jobs in any
// other state report ErrInvalidState.
func (r *Registry) CancelPending(id uuid.UUID, result *Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if job.Status != pipeline.StatusPending {
		return ErrInvalidState
	}
	job.Status = pipeline.StatusFailed
	job.Result = result
	return nil
}

// Complete records a job's terminal status and result.
func (r *Registry) Complete(id uuid.UUID, status pipeline.Status, result *Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Status = status
	job.Result = result
}

// List returns summaries of every job along with aggregate counts.
// Processing counts every non-terminal job; completed counts every
// terminal one.
func (r *Registry) List() ListResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := ListResult{Documents: make([]Summary, 0, len(r.jobs))}
	for _, job := range r.jobs {
		result.Documents = append(result.Documents, Summary{
			DocumentID: job.ID,
			Status:     job.Status,
			Filename:   job.Filename,
			Timestamp:  job.Timestamp,
		})
		if job.Status.Terminal() {
			result.Completed++
		} else {
			result.Processing++
		}
	}
	result.Total = len(result.Documents)

	slices.SortFunc(result.Documents, func(a, b Summary) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return -c
		}
		return strings.Compare(a.DocumentID.String(), b.DocumentID.String())
	})

	return result
}
