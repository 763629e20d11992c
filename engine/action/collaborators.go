package action

import "context"

// PromptLibrary renders a named prompt template against a context, mirroring
// the external prompt-library collaborator PromptAction depends on (spec
// §4.4). It is satisfied by the prompt-resource subsystem in production and
// by a fake in tests.
type PromptLibrary interface {
	Render(ctx context.Context, name string, data map[string]any) (string, error)
	HasTemplate(name string) bool
}

// AgentConfig carries the agent-layer configuration threaded through a
// workflow context under the "agent_config" key.
type AgentConfig map[string]any

// AgentExecutor is the C5 collaborator PromptAction calls to run a prompt
// through whichever agent backend agent_config selects.
type AgentExecutor interface {
	ExecutePrompt(ctx context.Context, config AgentConfig, mcpPort int, systemPrompt *string, userPrompt string) (*AgentResult, error)
}

// AgentResult is the shape of a successful agent execution, enough of the C5
// AgentResponse contract for PromptAction to populate the workflow context.
type AgentResult struct {
	Content  string
	Metadata map[string]any
}

// ShellSandbox is the external collaborator ShellAction delegates command
// execution to once Go-side validation passes (spec §4.4 ShellAction).
type ShellSandbox interface {
	Run(ctx context.Context, command, workingDir string, env map[string]string, timeoutSecs int) (*ShellResult, error)
}

// ShellResult is the structured outcome a ShellSandbox returns.
type ShellResult struct {
	ExitCode        int
	Stdout          string
	Stderr          string
	ExecutionTimeMs int64
}

// WorkflowRunner is the collaborator SubWorkflowAction uses to start and run
// a named sub-workflow to completion (implemented by C6).
type WorkflowRunner interface {
	RunToCompletion(ctx context.Context, workflowName string, childCtx Context) (Context, error)
}

// WorkflowLoader resolves a workflow by name from storage (spec §4.4
// SubWorkflowAction step 3: filesystem-backed, overridable in tests).
type WorkflowLoader interface {
	Exists(ctx context.Context, workflowName string) (bool, error)
}
