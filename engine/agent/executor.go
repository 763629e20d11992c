package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/swissarmyhammer/swissarmyhammer/engine/action"
)

// Executor adapts CreateAgent into the action.AgentExecutor contract C4
// calls through, translating ACP's error taxonomy into the action engine's
// per spec §4.5's error mapping table.
type Executor struct {
	Runtime LocalRuntime
}

// configFromAction converts the loosely typed action.AgentConfig bag into a
// ModelConfig. Unset fields default to the Claude CLI executor with
// auto-discovery, matching the common case where agent_config only carries
// overrides.
func configFromAction(cfg action.AgentConfig) ModelConfig {
	mc := ModelConfig{Executor: ExecutorClaudeCode}
	if v, ok := cfg["executor"].(string); ok && v != "" {
		mc.Executor = ExecutorType(v)
	}
	if v, ok := cfg["claude_path"].(string); ok {
		mc.ClaudePath = v
	}
	if v, ok := cfg["claude_args"].([]string); ok {
		mc.ClaudeArgs = v
	}
	if v, ok := cfg["model_source"].(string); ok {
		mc.LlamaAgent.ModelSource = v
	}
	return mc
}

func (e *Executor) ExecutePrompt(
	ctx context.Context,
	config action.AgentConfig,
	mcpPort int,
	systemPrompt *string,
	userPrompt string,
) (*action.AgentResult, error) {
	agent, err := CreateAgent(configFromAction(config), McpServerConfig{Port: mcpPort}, e.Runtime)
	if err != nil {
		return nil, mapConstructionError(err)
	}

	resp, err := agent.Execute(ctx, Prompt{SystemPrompt: systemPrompt, UserPrompt: userPrompt})
	if err != nil {
		return nil, mapExecutionError(err)
	}
	return &action.AgentResult{Content: resp.Content, Metadata: resp.Metadata}, nil
}

func mapConstructionError(err error) error {
	var initErr *InitializationError
	var unavailableErr *AgentNotAvailableError
	if errors.As(err, &initErr) || errors.As(err, &unavailableErr) {
		return &action.ClaudeError{Detail: err.Error()}
	}
	return &action.ExecutionError{Detail: err.Error()}
}

func mapExecutionError(err error) error {
	var sessionErr *SessionError
	var promptErr *PromptError
	var configErr *ConfigurationError
	var rateErr *RateLimitError
	switch {
	case errors.As(err, &rateErr):
		return &action.RateLimitError{Message: rateErr.Message, WaitTime: rateErr.WaitTime}
	case errors.As(err, &sessionErr), errors.As(err, &promptErr), errors.As(err, &configErr):
		return &action.ExecutionError{Detail: err.Error()}
	default:
		return &action.ExecutionError{Detail: fmt.Sprintf("agent execution failed: %v", err)}
	}
}
