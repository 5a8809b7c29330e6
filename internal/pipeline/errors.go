package pipeline

import "errors"

// Stage error conditions. All three are contained within their stage and
// converted to the stage's fallback result; none propagate to the orchestrator.
var (
	// ErrNoStructuredOutput indicates no JSON-like fragment was located in
	// the delegate's response.
	ErrNoStructuredOutput = errors.New("no structured output found in response")
	// ErrMalformedOutput indicates a fragment was found but was not valid
	// JSON or was missing required keys.
	ErrMalformedOutput = errors.New("malformed structured output")
	// ErrDelegateUnavailable indicates the text-generation collaborator
	// could not be reached.
	ErrDelegateUnavailable = errors.New("generation delegate unavailable")
)
