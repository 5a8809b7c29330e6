package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/docflow/docflow/pkg/formatting"
)

// classify runs the classification stage. On any delegate or parse failure
// it returns the documented fallback result together with the error so the
// orchestrator can record it; the returned result is always usable.
func classify(ctx context.Context, rt *Runtime, state *State) (*ClassificationResult, error) {
	raw, err := rt.Delegate.Generate(ctx, classifyPrompt(state.Content, state.Metadata.SizeBytes))
	if err != nil {
		return fallbackClassification(err), err
	}

	parsed, err := formatting.Parse[ClassificationResult](raw)
	if err != nil {
		err = mapParseError(err)
		return fallbackClassification(err), err
	}

	if parsed.DocumentType == "" {
		err = fmt.Errorf("%w: missing document_type", ErrMalformedOutput)
		return fallbackClassification(err), err
	}

	return &parsed, nil
}

func fallbackClassification(err error) *ClassificationResult {
	return &ClassificationResult{
		DocumentType:     TypeUnknown,
		Confidence:       0,
		Reasoning:        fmt.Sprintf("Error: %v", err),
		AlternativeTypes: nil,
	}
}

// mapParseError translates formatting parse failures into the stage error taxonomy.
func mapParseError(err error) error {
	if errors.Is(err, formatting.ErrNoJSONFound) {
		return fmt.Errorf("%w: %v", ErrNoStructuredOutput, err)
	}
	return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
}
