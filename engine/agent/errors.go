package agent

import "fmt"

// InitializationError reports that an Agent could not be constructed.
type InitializationError struct {
	Detail string
}

func (e *InitializationError) Error() string { return "agent initialization: " + e.Detail }

// AgentNotAvailableError reports that the selected backend is reachable in
// principle but not currently usable (e.g. the Claude CLI binary is
// missing). Recoverable in tests per spec §4.5.
type AgentNotAvailableError struct {
	Detail string
}

func (e *AgentNotAvailableError) Error() string { return "agent not available: " + e.Detail }

// SessionError reports a failure maintaining or propagating session state
// (e.g. set_session_mode).
type SessionError struct {
	Detail string
}

func (e *SessionError) Error() string { return "agent session: " + e.Detail }

// PromptError reports a failure specific to a single prompt execution.
type PromptError struct {
	Detail string
}

func (e *PromptError) Error() string { return "agent prompt: " + e.Detail }

// ConfigurationError reports an invalid ModelConfig.
type ConfigurationError struct {
	Detail string
}

func (e *ConfigurationError) Error() string { return "agent configuration: " + e.Detail }

// RateLimitError reports a backend-reported rate limit with a wait hint.
type RateLimitError struct {
	Message  string
	WaitTime string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("agent rate limit: %s (retry after %s)", e.Message, e.WaitTime)
}
