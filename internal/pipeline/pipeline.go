package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Runtime bundles the dependencies the pipeline stages require.
// It is constructed by higher-level composition code from the configured
// delegate and routing thresholds.
type Runtime struct {
	Delegate   Delegate
	Thresholds Thresholds
	Logger     *slog.Logger
}

// Run executes classify, extract, validate, and route over one document's
// state, strictly in that order. Every stage failure is captured into
// state.Errors and replaced with the stage's fallback result; the chain
// never halts because a predecessor failed. notify publishes each status
// transition so the caller can expose progress without sharing the state.
//
// Run returns an error only when the orchestration itself cannot continue
// (the context is cancelled or has expired between stages); the caller
// marks the job failed in that case. End time is set whenever the routing
// stage was reached, on both the completed and partial paths.
func Run(ctx context.Context, rt *Runtime, state *State, notify func(Status)) error {
	advance := func(s Status) {
		state.Status = s
		if notify != nil {
			notify(s)
		}
	}

	record := func(stage string, err error) {
		state.Errors = append(state.Errors, fmt.Sprintf("%s: %v", stage, err))
		rt.Logger.ErrorContext(ctx, "stage fell back",
			"job_id", state.JobID,
			"stage", stage,
			"error", err,
		)
	}

	classification, err := classify(ctx, rt, state)
	if err != nil {
		record("classification", err)
	}
	state.Classification = classification
	advance(StatusClassified)
	rt.Logger.InfoContext(ctx, "document classified",
		"job_id", state.JobID,
		"document_type", classification.DocumentType,
		"confidence", classification.Confidence,
	)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("orchestration interrupted after classification: %w", err)
	}

	extraction, err := extract(ctx, rt, state)
	if err != nil {
		record("extraction", err)
	}
	state.Extraction = extraction
	advance(StatusExtracted)
	rt.Logger.InfoContext(ctx, "fields extracted",
		"job_id", state.JobID,
		"field_count", len(extraction.Fields),
		"confidence", extraction.Confidence,
	)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("orchestration interrupted after extraction: %w", err)
	}

	validation, err := validate(ctx, rt, state)
	if err != nil {
		record("validation", err)
	}
	state.Validation = validation
	advance(StatusValidated)
	rt.Logger.InfoContext(ctx, "extraction validated",
		"job_id", state.JobID,
		"is_valid", validation.IsValid,
		"confidence", validation.Confidence,
	)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("orchestration interrupted after validation: %w", err)
	}

	decision, routeErr := route(ctx, rt, state)
	state.Routing = decision

	end := time.Now().UTC()
	state.EndTime = &end

	if routeErr != nil {
		record("routing", routeErr)
		advance(StatusPartial)
	} else {
		advance(StatusCompleted)
	}

	rt.Logger.InfoContext(ctx, "document routed",
		"job_id", state.JobID,
		"destination", decision.Destination,
		"status", state.Status,
	)

	return nil
}
