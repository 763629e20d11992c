// Package agent presents the unified agent session interface of spec §4.5
// regardless of which executor backs it: the Claude CLI, or an in-process
// local model runtime.
package agent

import "context"

// ExecutorType selects which backend Agent wraps.
type ExecutorType string

const (
	ExecutorClaudeCode ExecutorType = "claude-code"
	ExecutorLlamaAgent ExecutorType = "llama-agent"
)

// McpServerConfig carries the port of an MCP server the external
// orchestrator has already started. ACP never starts one itself (spec §4.5
// Lifecycle contract).
type McpServerConfig struct {
	Port int
}

// LlamaAgentConfig configures the in-process local model runtime path.
type LlamaAgentConfig struct {
	ModelSource       string
	BatchSize         int
	RepetitionPenalty float32
}

// ModelConfig selects and configures the backend an Agent dispatches to.
type ModelConfig struct {
	Executor   ExecutorType
	ClaudePath string
	ClaudeArgs []string
	LlamaAgent LlamaAgentConfig
}

// ResponseType classifies an AgentResponse.
type ResponseType string

const (
	ResponseSuccess ResponseType = "success"
	ResponsePartial ResponseType = "partial"
	ResponseError   ResponseType = "error"
)

// AgentResponse is the uniform shape every executor returns through (spec
// §4.5 Response shape).
type AgentResponse struct {
	Content      string
	Metadata     map[string]any
	ResponseType ResponseType
}

func SuccessResponse(content string) AgentResponse {
	return AgentResponse{Content: content, ResponseType: ResponseSuccess}
}

func SuccessWithMetadata(content string, metadata map[string]any) AgentResponse {
	return AgentResponse{Content: content, Metadata: metadata, ResponseType: ResponseSuccess}
}

func PartialResponse(content string) AgentResponse {
	return AgentResponse{Content: content, ResponseType: ResponsePartial}
}

func ErrorResponse(content string) AgentResponse {
	return AgentResponse{Content: content, ResponseType: ResponseError}
}

// Prompt is the input to a single execute_prompt call (spec §4.5 Session).
type Prompt struct {
	SystemPrompt *string
	Mode         *string
	UserPrompt   string
}

// Agent holds session state across Execute calls and dispatches to whatever
// backend its ModelConfig selected.
type Agent interface {
	Execute(ctx context.Context, prompt Prompt) (*AgentResponse, error)
}
