package pipeline

import (
	"context"

	"github.com/docflow/docflow/pkg/formatting"
)

// extract runs the extraction stage against the classified document type.
// The classification result always exists by this point, even when the
// classification stage itself fell back.
func extract(ctx context.Context, rt *Runtime, state *State) (*ExtractionResult, error) {
	raw, err := rt.Delegate.Generate(ctx, extractPrompt(state.Content, state.Classification.DocumentType))
	if err != nil {
		return fallbackExtraction(err), err
	}

	parsed, err := formatting.Parse[ExtractionResult](raw)
	if err != nil {
		err = mapParseError(err)
		return fallbackExtraction(err), err
	}

	if parsed.Fields == nil {
		parsed.Fields = map[string]any{}
	}
	if parsed.ExtractionMethod == "" {
		parsed.ExtractionMethod = "ai_extraction"
	}
	if parsed.Warnings == nil {
		parsed.Warnings = []string{}
	}

	return &parsed, nil
}

func fallbackExtraction(err error) *ExtractionResult {
	return &ExtractionResult{
		Fields:           map[string]any{},
		Confidence:       0,
		ExtractionMethod: "failed",
		Warnings:         []string{err.Error()},
	}
}
