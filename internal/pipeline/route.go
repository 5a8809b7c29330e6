package pipeline

import (
	"context"
	"fmt"

	"github.com/docflow/docflow/pkg/formatting"
)

// Thresholds holds the confidence bands that drive the routing decision.
type Thresholds struct {
	High float64
	Low  float64
}

// DefaultThresholds returns the standard routing bands.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.8, Low: 0.5}
}

// route runs the routing stage. The delegate supplies reasoning and
// confidence, but the destination is always computed mechanically from the
// thresholds so routing stays deterministic regardless of what the delegate
// answers. A routing failure yields the conservative fallback decision and
// marks the run partial rather than failed.
func route(ctx context.Context, rt *Runtime, state *State) (*RoutingDecision, error) {
	raw, err := rt.Delegate.Generate(ctx, routePrompt(state, rt.Thresholds))
	if err != nil {
		return fallbackRouting(err), err
	}

	parsed, err := formatting.Parse[RoutingDecision](raw)
	if err != nil {
		err = mapParseError(err)
		return fallbackRouting(err), err
	}

	decision := decide(state, rt.Thresholds)
	parsed.Destination = decision
	parsed.RequiresHumanReview = decision != DestHighConfidence
	if parsed.Reasoning == "" {
		parsed.Reasoning = fmt.Sprintf("Routed to %s by confidence thresholds", decision)
	}

	return &parsed, nil
}

// decide applies the threshold policy over the accumulated stage confidences.
func decide(state *State, t Thresholds) Destination {
	classConf := float64(state.Classification.Confidence)
	extrConf := float64(state.Extraction.Confidence)
	valid := state.Validation.IsValid

	switch {
	case classConf < t.Low || extrConf < t.Low || !valid:
		return DestSpecialistReview
	case classConf > t.High && extrConf > t.High:
		return DestHighConfidence
	default:
		return DestManualReview
	}
}

func fallbackRouting(err error) *RoutingDecision {
	return &RoutingDecision{
		Destination:         DestManualReview,
		Reasoning:           fmt.Sprintf("Error: %v", err),
		Confidence:          0,
		RequiresHumanReview: true,
	}
}
