package action

import (
	"context"
	"fmt"
)

// SubWorkflowAction runs a named workflow to completion as a nested
// execution, propagating a constrained slice of the parent context (spec
// §4.4 SubWorkflowAction).
type SubWorkflowAction struct {
	WorkflowName   string
	Inputs         map[string]string
	ResultVariable string

	Loader WorkflowLoader
	Runner WorkflowRunner
}

func NewSubWorkflowAction(workflowName string, loader WorkflowLoader, runner WorkflowRunner) *SubWorkflowAction {
	return &SubWorkflowAction{WorkflowName: workflowName, Inputs: make(map[string]string), Loader: loader, Runner: runner}
}

func (a *SubWorkflowAction) WithInput(key, value string) *SubWorkflowAction {
	a.Inputs[key] = value
	return a
}

func (a *SubWorkflowAction) WithResultVariable(name string) *SubWorkflowAction {
	a.ResultVariable = name
	return a
}

func (a *SubWorkflowAction) Description() string { return "Run sub-workflow: " + a.WorkflowName }
func (a *SubWorkflowAction) ActionType() string  { return "sub_workflow" }

func (a *SubWorkflowAction) Execute(ctx context.Context, wfCtx Context) (any, error) {
	if err := a.checkCycle(wfCtx); err != nil {
		return nil, err
	}

	substituted := substituteMap(a.Inputs, wfCtx)
	for key := range substituted {
		if err := ValidateArgumentKey(key); err != nil {
			return nil, err
		}
	}

	exists, err := a.Loader.Exists(ctx, a.WorkflowName)
	if err != nil {
		return nil, &IOError{Op: "load sub-workflow", Err: err}
	}
	if !exists {
		return nil, &ParseError{Detail: fmt.Sprintf("sub-workflow %q not found", a.WorkflowName)}
	}

	childCtx := make(Context, len(substituted)+4)
	for k, v := range substituted {
		childCtx[k] = v
	}
	childCtx[workflowStackKey] = a.pushedStack(wfCtx)
	if agentConfig, ok := wfCtx[AgentConfigKey]; ok {
		childCtx[AgentConfigKey] = agentConfig
	}
	if quiet, ok := wfCtx[quietKey]; ok {
		childCtx[quietKey] = quiet
	}
	if timeout, ok := wfCtx[timeoutSecsKey]; ok {
		childCtx[timeoutSecsKey] = timeout
	}
	port, ok := wfCtx[mcpServerPortKey]
	if !ok {
		return nil, &ExecutionError{Detail: "MCP server port not found in parent context; cannot start sub-workflow"}
	}
	childCtx[mcpServerPortKey] = port

	resultCtx, err := a.Runner.RunToCompletion(ctx, a.WorkflowName, childCtx)
	if err != nil {
		return nil, &ExecutionError{Detail: fmt.Sprintf("sub-workflow %q did not complete: %v", a.WorkflowName, err)}
	}

	visible := visibleContext(resultCtx)
	if a.ResultVariable != "" {
		wfCtx[a.ResultVariable] = visible
	}
	wfCtx[lastActionResultKey] = true
	return visible, nil
}

func (a *SubWorkflowAction) checkCycle(wfCtx Context) error {
	stack, _ := wfCtx[workflowStackKey].([]string)
	for _, name := range stack {
		if name == a.WorkflowName {
			return &ExecutionError{Detail: fmt.Sprintf("Circular workflow dependency: %q is already running", a.WorkflowName)}
		}
	}
	return nil
}

func (a *SubWorkflowAction) pushedStack(wfCtx Context) []string {
	stack, _ := wfCtx[workflowStackKey].([]string)
	out := make([]string, len(stack), len(stack)+1)
	copy(out, stack)
	return append(out, a.WorkflowName)
}
