package pipeline

import (
	"context"

	"github.com/docflow/docflow/pkg/formatting"
)

// validate runs the validation stage over the extracted fields and the
// original content. A fallback validation reports invalid, which keeps
// downstream routing conservative.
func validate(ctx context.Context, rt *Runtime, state *State) (*ValidationResult, error) {
	raw, err := rt.Delegate.Generate(ctx, validatePrompt(state.Content, state.Extraction))
	if err != nil {
		return fallbackValidation(err), err
	}

	parsed, err := formatting.Parse[ValidationResult](raw)
	if err != nil {
		err = mapParseError(err)
		return fallbackValidation(err), err
	}

	if parsed.Conflicts == nil {
		parsed.Conflicts = []map[string]any{}
	}
	if parsed.MissingFields == nil {
		parsed.MissingFields = []string{}
	}
	if parsed.Warnings == nil {
		parsed.Warnings = []string{}
	}

	return &parsed, nil
}

func fallbackValidation(err error) *ValidationResult {
	return &ValidationResult{
		IsValid:       false,
		Conflicts:     []map[string]any{},
		MissingFields: []string{},
		Confidence:    0,
		Warnings:      []string{err.Error()},
	}
}
