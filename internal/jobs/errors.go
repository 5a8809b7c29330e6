package jobs

import (
	"errors"
	"net/http"
)

// Domain errors for job operations.
var (
	// ErrNotFound indicates no job exists with the given identifier.
	ErrNotFound = errors.New("document not found")

	// ErrUnsupportedFileType indicates the upload's extension is not allowed.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrMalformedUpload indicates the request body was not a readable
	// multipart upload with a file field.
	ErrMalformedUpload = errors.New("malformed upload request")

	// ErrAdmissionRejected indicates all processing slots are occupied.
	ErrAdmissionRejected = errors.New("processing capacity exhausted")

	// ErrInvalidState indicates the operation does not apply to the job's
	// current status, such as cancelling a job that already started.
	ErrInvalidState = errors.New("invalid job state for operation")

	// ErrStillPending indicates results were requested before processing began.
	ErrStillPending = errors.New("document is pending")

	// ErrStillProcessing indicates results were requested mid-pipeline.
	ErrStillProcessing = errors.New("document is still processing")
)

// MapHTTPStatus translates job domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnsupportedFileType), errors.Is(err, ErrMalformedUpload),
		errors.Is(err, ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, ErrAdmissionRejected):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrStillPending), errors.Is(err, ErrStillProcessing):
		return http.StatusAccepted
	default:
		return http.StatusInternalServerError
	}
}
