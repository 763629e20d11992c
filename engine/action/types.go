// Package action implements the seven workflow action types of the action
// engine: parsing a rendered state description into one of them, and
// executing it against a shared workflow context (spec §4.4).
package action

import (
	"context"
	"regexp"
)

// Context is the mutable key/value bag actions read from and write into.
// Keys prefixed with "_" are internal and hidden from variable substitution.
type Context map[string]any

// Clone returns a shallow copy, used when a child context must diverge from
// its parent without mutating it (e.g. SubWorkflowAction).
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

const (
	lastActionResultKey = "last_action_result"
	workflowStackKey    = "_workflow_stack"
	abortRequestedKey   = "__ABORT_REQUESTED__"
	mcpServerPortKey    = "_mcp_server_port"
	quietKey            = "_quiet"
	timeoutSecsKey      = "_timeout_secs"
	claudeResponseKey   = "claude_response"

	// AgentConfigKey is the context entry PromptAction and SubWorkflowAction
	// read the agent backend configuration from.
	AgentConfigKey = "agent_config"
)

// Exported aliases of the internal context keys a workflow executor (C6)
// must seed before running a state machine: the MCP server port, an
// optional quiet flag, and an optional default action timeout.
const (
	MCPServerPortKey = mcpServerPortKey
	QuietKey         = quietKey
	TimeoutSecsKey   = timeoutSecsKey
	WorkflowStackKey = workflowStackKey
)

// Action is implemented by every workflow action type. Execute runs the
// action against ctx, returning the value to surface as the action's result.
type Action interface {
	Execute(ctx context.Context, wfCtx Context) (any, error)
	Description() string
	ActionType() string
}

var argumentKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateArgumentKey enforces spec §4.4's argument key rule: non-empty,
// alphanumeric plus '-' and '_' only.
func ValidateArgumentKey(key string) error {
	if key == "" || !argumentKeyPattern.MatchString(key) {
		return &ParseError{Detail: "invalid argument key: " + key}
	}
	return nil
}
