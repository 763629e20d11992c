// Package model implements the layered agent/model registry (C1): discovery,
// parsing, merging, and use-case routing across Builtin, Project, GitRoot,
// and User scopes.
package model

import "fmt"

// Scope identifies where a model definition was discovered. Scopes are
// ordered by increasing precedence: User > GitRoot > Project > Builtin.
type Scope int

const (
	Builtin Scope = iota
	Project
	GitRoot
	User
)

// precedence returns a strictly increasing rank; higher wins merges.
func (s Scope) precedence() int {
	switch s {
	case User:
		return 3
	case GitRoot:
		return 2
	case Project:
		return 1
	default:
		return 0
	}
}

func (s Scope) String() string {
	switch s {
	case Builtin:
		return "builtin"
	case Project:
		return "project"
	case GitRoot:
		return "git-root"
	case User:
		return "user"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// ExecutorType distinguishes the two agent executors the core can drive.
type ExecutorType string

const (
	ClaudeCode ExecutorType = "claude-code"
	LlamaAgent ExecutorType = "llama-agent"
)

// ClaudeCodeConfig configures the Claude-CLI executor.
type ClaudeCodeConfig struct {
	ClaudePath string   `yaml:"claude_path,omitempty" json:"claude_path,omitempty"`
	Args       []string `yaml:"args,omitempty"        json:"args,omitempty"`
}

// HuggingFaceSource identifies a model to download from the Hugging Face hub.
type HuggingFaceSource struct {
	Repo     string `yaml:"repo"               json:"repo"`
	Filename string `yaml:"filename,omitempty" json:"filename,omitempty"`
	Folder   string `yaml:"folder,omitempty"   json:"folder,omitempty"`
}

// LocalSource identifies a model already present on disk.
type LocalSource struct {
	Filename string `yaml:"filename"         json:"filename"`
	Folder   string `yaml:"folder,omitempty" json:"folder,omitempty"`
}

// ModelSource is a tagged union of HuggingFace vs Local model sources.
type ModelSource struct {
	HuggingFace *HuggingFaceSource `yaml:"huggingface,omitempty" json:"huggingface,omitempty"`
	Local       *LocalSource       `yaml:"local,omitempty"       json:"local,omitempty"`
}

// RepetitionDetection controls the local runtime's repetition guard.
type RepetitionDetection struct {
	Enabled             bool    `yaml:"enabled"              json:"enabled"`
	RepetitionPenalty   float64 `yaml:"repetition_penalty"   json:"repetition_penalty"`
	RepetitionThreshold int     `yaml:"repetition_threshold" json:"repetition_threshold"`
	RepetitionWindow    int     `yaml:"repetition_window"    json:"repetition_window"`
}

// DefaultRepetitionDetection matches the schema default in spec §6.
func DefaultRepetitionDetection() RepetitionDetection {
	return RepetitionDetection{
		Enabled:             true,
		RepetitionPenalty:   1.1,
		RepetitionThreshold: 50,
		RepetitionWindow:    64,
	}
}

// McpServerRef carries the port/timeout the local runtime exposes its MCP
// server on. The core never starts this server (spec §4.5 lifecycle
// contract); this struct only records the configured values.
type McpServerRef struct {
	Port           uint16 `yaml:"port"                      json:"port"`
	TimeoutSeconds uint64 `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
}

// LlamaAgentConfig configures the in-process local-model executor.
type LlamaAgentConfig struct {
	Model               ModelSource         `yaml:"model"                          json:"model"`
	BatchSize           uint32              `yaml:"batch_size,omitempty"           json:"batch_size,omitempty"`
	UseHFParams         bool                `yaml:"use_hf_params"                  json:"use_hf_params"`
	Debug               bool                `yaml:"debug,omitempty"                json:"debug,omitempty"`
	McpServer           McpServerRef        `yaml:"mcp_server"                     json:"mcp_server"`
	RepetitionDetection RepetitionDetection `yaml:"repetition_detection,omitempty" json:"repetition_detection,omitempty"`
}

// ExecutorConfig is the tagged-variant executor description (spec §3).
type ExecutorConfig struct {
	Type       ExecutorType      `yaml:"type"                 json:"type"`
	ClaudeCode *ClaudeCodeConfig `yaml:"config,omitempty"     json:"config,omitempty"`
	LlamaAgent *LlamaAgentConfig `yaml:"-"                    json:"-"`
}

// Config is the parsed, logical form of a model/agent YAML document.
type Config struct {
	Executor ExecutorConfig `yaml:"executor" json:"executor"`
	Quiet    bool           `yaml:"quiet"    json:"quiet"`
}

// ClaudeCodeDefault returns the default Claude-CLI configuration used when
// no project config selects an agent for a use case (spec §4.1 step 1).
func ClaudeCodeDefault() Config {
	return Config{
		Executor: ExecutorConfig{
			Type:       ClaudeCode,
			ClaudeCode: &ClaudeCodeConfig{},
		},
	}
}

// Info describes a discovered model definition: its name, raw content,
// originating scope, and optional human-readable description.
type Info struct {
	Name        string
	Raw         string
	Scope       Scope
	Description string
}

// UseCase is a routing key used by resolve_agent_config_for_use_case.
type UseCase string

const (
	UseCaseRoot      UseCase = "root"
	UseCaseRules     UseCase = "rules"
	UseCaseWorkflows UseCase = "workflows"
)
