// Package jobs manages asynchronous document processing jobs. It owns job
// submission, bounded-concurrency admission, status tracking, result
// retrieval, and cancellation, and exposes the HTTP surface for all of it.
package jobs

import (
	"time"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/pipeline"
)

// Job is the registry's record for one submitted document.
type Job struct {
	ID        uuid.UUID
	Filename  string
	Status    pipeline.Status
	Timestamp time.Time
	Result    *Result
}

// Summary is the listing projection of a job.
type Summary struct {
	DocumentID uuid.UUID       `json:"document_id"`
	Status     pipeline.Status `json:"status"`
	Filename   string          `json:"filename"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Result is the terminal outcome of a job, assembled from the pipeline
// state once processing ends. It is also the shape persisted as the job's
// snapshot.
type Result struct {
	DocumentID     uuid.UUID                      `json:"document_id"`
	Status         pipeline.Status                `json:"status"`
	Filename       string                         `json:"filename"`
	Classification *pipeline.ClassificationResult `json:"classification,omitempty"`
	Extraction     *pipeline.ExtractionResult     `json:"extraction,omitempty"`
	Validation     *pipeline.ValidationResult     `json:"validation,omitempty"`
	Routing        *pipeline.RoutingDecision      `json:"routing,omitempty"`
	ProcessingTime *float64                       `json:"processing_time,omitempty"`
	Errors         []string                       `json:"errors"`
	Timestamp      time.Time                      `json:"timestamp"`
}

// ListResult is the collection response with aggregate counts.
type ListResult struct {
	Documents  []Summary `json:"documents"`
	Total      int       `json:"total"`
	Processing int       `json:"processing"`
	Completed  int       `json:"completed"`
}

// StatusResponse reports a job's current progress.
type StatusResponse struct {
	DocumentID uuid.UUID       `json:"document_id"`
	Status     pipeline.Status `json:"status"`
	Filename   string          `json:"filename"`
	Timestamp  time.Time       `json:"timestamp"`
}

// UploadResponse acknowledges a submission.
type UploadResponse struct {
	DocumentID uuid.UUID       `json:"document_id"`
	Status     pipeline.Status `json:"status"`
	Message    string          `json:"message"`
}

// NewResult builds a job result from a finished pipeline state.
func NewResult(state *pipeline.State) *Result {
	errs := state.Errors
	if errs == nil {
		errs = []string{}
	}

	r := &Result{
		DocumentID:     state.JobID,
		Status:         state.Status,
		Filename:       state.Filename,
		Classification: state.Classification,
		Extraction:     state.Extraction,
		Validation:     state.Validation,
		Routing:        state.Routing,
		Errors:         errs,
		Timestamp:      time.Now().UTC(),
	}

	if state.EndTime != nil {
		elapsed := state.EndTime.Sub(state.StartTime).Seconds()
		r.ProcessingTime = &elapsed
	}

	return r
}
