package agent

import (
	"context"
	"errors"
	"fmt"
)

// LocalRuntime is the in-process model runtime a llama-agent Agent drives.
// The core never starts this runtime itself; it must already be running and
// reachable through this interface before an Agent is constructed (spec
// §4.5 Lifecycle contract).
type LocalRuntime interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, mode string) (string, error)
}

type llamaAgent struct {
	runtime     LocalRuntime
	config      LlamaAgentConfig
	mcp         McpServerConfig
	sessionMode string
}

func newLlamaAgent(runtime LocalRuntime, config LlamaAgentConfig, mcp McpServerConfig) (*llamaAgent, error) {
	if runtime == nil {
		return nil, &AgentNotAvailableError{Detail: "local model runtime is not configured"}
	}
	return &llamaAgent{runtime: runtime, config: config, mcp: mcp}, nil
}

func (a *llamaAgent) SetSessionMode(mode string) {
	a.sessionMode = mode
}

func (a *llamaAgent) Execute(ctx context.Context, prompt Prompt) (*AgentResponse, error) {
	mode := a.sessionMode
	if prompt.Mode != nil {
		mode = *prompt.Mode
	}
	system := ""
	if prompt.SystemPrompt != nil {
		system = *prompt.SystemPrompt
	}

	content, err := a.runtime.Generate(ctx, system, prompt.UserPrompt, mode)
	if err != nil {
		var rateErr *RateLimitError
		if errors.As(err, &rateErr) {
			return nil, err
		}
		return nil, &PromptError{Detail: fmt.Sprintf("local model generation failed: %v", err)}
	}
	resp := SuccessResponse(content)
	return &resp, nil
}
