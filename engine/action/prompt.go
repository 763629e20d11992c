package action

import (
	"context"
	"fmt"
)

// PromptAction executes a named prompt through the agent layer (spec §4.4
// PromptAction).
type PromptAction struct {
	PromptName     string
	Arguments      map[string]string
	ResultVariable string
	Quiet          bool

	Library  PromptLibrary
	Executor AgentExecutor
}

func NewPromptAction(promptName string, library PromptLibrary, executor AgentExecutor) *PromptAction {
	return &PromptAction{
		PromptName: promptName,
		Arguments:  make(map[string]string),
		Library:    library,
		Executor:   executor,
	}
}

func (a *PromptAction) WithArgument(key, value string) *PromptAction {
	a.Arguments[key] = value
	return a
}

func (a *PromptAction) WithResultVariable(name string) *PromptAction {
	a.ResultVariable = name
	return a
}

func (a *PromptAction) Description() string { return "Execute prompt: " + a.PromptName }
func (a *PromptAction) ActionType() string  { return "prompt" }

// Execute renders the prompt template and the optional default system
// prompt, resolves the MCP server port, and delegates execution to the
// agent layer (spec §4.4 PromptAction).
func (a *PromptAction) Execute(ctx context.Context, wfCtx Context) (any, error) {
	for key := range a.Arguments {
		if err := ValidateArgumentKey(key); err != nil {
			return nil, err
		}
	}

	templateCtx := make(map[string]any, len(wfCtx)+len(a.Arguments))
	for k, v := range visibleContext(wfCtx) {
		templateCtx[k] = v
	}
	for k, v := range a.Arguments {
		templateCtx[k] = v
	}

	userPrompt, err := a.Library.Render(ctx, a.PromptName, templateCtx)
	if err != nil {
		return nil, &ClaudeError{Detail: fmt.Sprintf("render prompt %q: %v", a.PromptName, err)}
	}

	var systemPrompt *string
	if wfCtx["workflow_mode"] == nil {
		if a.Library.HasTemplate(".system/default") {
			rendered, err := a.Library.Render(ctx, ".system/default", templateCtx)
			if err != nil {
				return nil, &ClaudeError{Detail: fmt.Sprintf("render default system prompt: %v", err)}
			}
			systemPrompt = &rendered
		}
	}

	portVal, ok := wfCtx[mcpServerPortKey]
	if !ok {
		return nil, &ExecutionError{Detail: "MCP server port not found in context; the orchestrator must start the MCP server before workflow execution"}
	}
	port, ok := toInt(portVal)
	if !ok {
		return nil, &ExecutionError{Detail: "MCP server port in context is not a valid integer"}
	}

	agentConfig, _ := wfCtx["agent_config"].(map[string]any)

	result, err := a.Executor.ExecutePrompt(ctx, AgentConfig(agentConfig), port, systemPrompt, userPrompt)
	if err != nil {
		return nil, &ClaudeError{Detail: err.Error()}
	}

	wfCtx[lastActionResultKey] = true
	wfCtx[claudeResponseKey] = result.Content
	if a.ResultVariable != "" {
		wfCtx[a.ResultVariable] = result
	}
	return result.Content, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
