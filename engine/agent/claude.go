package agent

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// claudeAgent wraps the Claude CLI binary, holding the append-system-prompt
// mode set by the most recent SetSessionMode call (spec §4.5 Session: CLI
// mode propagation is --append-system-prompt, never bled into the user
// prompt text).
type claudeAgent struct {
	binaryPath string
	extraArgs  []string
	mcp        McpServerConfig

	sessionMode string
}

// discoverClaudeBinary resolves the Claude CLI path: the configured path if
// set, otherwise the first "claude" found on PATH.
func discoverClaudeBinary(configuredPath string) (string, error) {
	if configuredPath != "" {
		return configuredPath, nil
	}
	path, err := exec.LookPath("claude")
	if err != nil {
		return "", &AgentNotAvailableError{Detail: "claude CLI not found on PATH: " + err.Error()}
	}
	return path, nil
}

func newClaudeAgent(config ModelConfig, mcp McpServerConfig) (*claudeAgent, error) {
	binary, err := discoverClaudeBinary(config.ClaudePath)
	if err != nil {
		return nil, err
	}
	return &claudeAgent{binaryPath: binary, extraArgs: config.ClaudeArgs, mcp: mcp}, nil
}

// SetSessionMode records the mode to be applied via --append-system-prompt
// on the next Execute call.
func (a *claudeAgent) SetSessionMode(mode string) {
	a.sessionMode = mode
}

func (a *claudeAgent) Execute(ctx context.Context, prompt Prompt) (*AgentResponse, error) {
	args := make([]string, 0, len(a.extraArgs)+6)
	args = append(args, a.extraArgs...)
	args = append(args, "--mcp-port", fmt.Sprintf("%d", a.mcp.Port))

	mode := a.sessionMode
	if prompt.Mode != nil {
		mode = *prompt.Mode
	}
	if mode != "" {
		args = append(args, "--append-system-prompt", mode)
	}
	if prompt.SystemPrompt != nil {
		args = append(args, "--system-prompt", *prompt.SystemPrompt)
	}

	cmd := exec.CommandContext(ctx, a.binaryPath, args...)
	cmd.Stdin = strings.NewReader(prompt.UserPrompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		output := stderr.String()
		if isRateLimitOutput(output) {
			return nil, &RateLimitError{Message: strings.TrimSpace(output)}
		}
		return nil, &PromptError{Detail: fmt.Sprintf("claude CLI failed: %v: %s", err, output)}
	}

	resp := SuccessResponse(strings.TrimSpace(stdout.String()))
	return &resp, nil
}

func isRateLimitOutput(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "rate limit") || strings.Contains(lower, "429")
}
