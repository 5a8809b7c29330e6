package pipeline

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Delegate is the external text-generation collaborator every stage calls.
// Given a prompt it returns free-form text; structure extraction is the
// caller's problem.
type Delegate interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type agentDelegate struct {
	cfg gaconfig.AgentConfig
}

// NewAgentDelegate creates a Delegate backed by a go-agents chat agent.
// A fresh agent is created per call so concurrent pipeline tasks never
// share conversation state.
func NewAgentDelegate(cfg gaconfig.AgentConfig) Delegate {
	return &agentDelegate{cfg: cfg}
}

func (d *agentDelegate) Generate(ctx context.Context, prompt string) (string, error) {
	a, err := agent.New(&d.cfg)
	if err != nil {
		return "", fmt.Errorf("%w: create agent: %v", ErrDelegateUnavailable, err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: chat call: %v", ErrDelegateUnavailable, err)
	}

	return resp.Text(), nil
}
