package agent

import (
	"context"

	"github.com/google/uuid"
)

type modeSetter interface {
	SetSessionMode(mode string)
}

// sessionAgent adapts a claudeAgent or llamaAgent, both of which support
// SetSessionMode, behind the Agent interface. sessionID is minted once at
// construction and stamped onto every response's metadata so a caller can
// correlate multiple Execute calls back to the same session (spec §4.5
// Session).
type sessionAgent struct {
	sessionID string
	inner     interface {
		Agent
		modeSetter
	}
}

func (s *sessionAgent) SetSessionMode(mode string) { s.inner.SetSessionMode(mode) }
func (s *sessionAgent) Execute(ctx context.Context, prompt Prompt) (*AgentResponse, error) {
	resp, err := s.inner.Execute(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if resp.Metadata == nil {
		resp.Metadata = make(map[string]any, 1)
	}
	resp.Metadata["session_id"] = s.sessionID
	return resp, nil
}

// CreateAgent dispatches on config.Executor to construct the appropriate
// backend (spec §4.5 Construction). runtime is only consulted for the
// llama-agent path and may be nil otherwise.
func CreateAgent(config ModelConfig, mcp McpServerConfig, runtime LocalRuntime) (Agent, error) {
	sessionID := uuid.NewString()
	switch config.Executor {
	case ExecutorClaudeCode:
		agent, err := newClaudeAgent(config, mcp)
		if err != nil {
			return nil, err
		}
		return &sessionAgent{sessionID: sessionID, inner: agent}, nil
	case ExecutorLlamaAgent:
		agent, err := newLlamaAgent(runtime, config.LlamaAgent, mcp)
		if err != nil {
			return nil, err
		}
		return &sessionAgent{sessionID: sessionID, inner: agent}, nil
	default:
		return nil, &InitializationError{Detail: "unknown executor type: " + string(config.Executor)}
	}
}
