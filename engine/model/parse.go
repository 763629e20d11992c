package model

import (
	"strings"

	yaml "github.com/goccy/go-yaml"
)

const frontmatterDelim = "---"

// splitFrontmatter returns (frontmatter, body, ok). ok is false when text
// does not begin with a frontmatter delimiter line.
func splitFrontmatter(text string) (string, string, bool) {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontmatterDelim {
		return "", text, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelim {
			front := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return front, body, true
		}
	}
	return "", text, false
}

// ParseDescription extracts a model's human-readable description: from the
// frontmatter's `description` field when present, otherwise the first
// `# Description: ...` comment line, otherwise "".
func ParseDescription(text string) string {
	if front, _, ok := splitFrontmatter(text); ok {
		var fm struct {
			Description string `yaml:"description"`
		}
		if err := yaml.Unmarshal([]byte(front), &fm); err == nil && fm.Description != "" {
			return fm.Description
		}
	}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		const prefix = "# Description:"
		if strings.HasPrefix(trimmed, prefix) {
			desc := strings.TrimSpace(trimmed[len(prefix):])
			if desc != "" {
				return desc
			}
		}
	}
	return ""
}

// rawConfig is the on-disk shape of a model document's body.
type rawConfig struct {
	Executor struct {
		Type   string         `yaml:"type"`
		Config map[string]any `yaml:"config"`
	} `yaml:"executor"`
	Quiet bool `yaml:"quiet"`
}

// ParseConfig parses a model document into a Config. When a frontmatter
// block is present, the config is parsed from the text after the second
// `---`; otherwise the whole text is parsed.
func ParseConfig(text string) (Config, error) {
	_, body, hasFront := splitFrontmatter(text)
	if !hasFront {
		body = text
	}
	var raw rawConfig
	if err := yaml.Unmarshal([]byte(body), &raw); err != nil {
		return Config{}, &Error{Kind: ParseError, Detail: err.Error()}
	}
	cfg := Config{Quiet: raw.Quiet}
	switch ExecutorType(raw.Executor.Type) {
	case ClaudeCode, "":
		cfg.Executor.Type = ClaudeCode
		cc := &ClaudeCodeConfig{}
		if v, ok := raw.Executor.Config["claude_path"].(string); ok {
			cc.ClaudePath = v
		}
		if v, ok := raw.Executor.Config["args"].([]any); ok {
			for _, a := range v {
				if s, ok := a.(string); ok {
					cc.Args = append(cc.Args, s)
				}
			}
		}
		cfg.Executor.ClaudeCode = cc
	case LlamaAgent:
		cfg.Executor.Type = LlamaAgent
		la, err := parseLlamaAgentConfig(raw.Executor.Config)
		if err != nil {
			return Config{}, err
		}
		cfg.Executor.LlamaAgent = la
	default:
		return Config{}, &Error{Kind: ParseError, Detail: "unknown executor type: " + raw.Executor.Type}
	}
	return cfg, nil
}

func parseLlamaAgentConfig(raw map[string]any) (*LlamaAgentConfig, error) {
	encoded, err := yaml.Marshal(raw)
	if err != nil {
		return nil, &Error{Kind: ParseError, Detail: err.Error()}
	}
	cfg := &LlamaAgentConfig{
		BatchSize:           512,
		UseHFParams:         true,
		RepetitionDetection: DefaultRepetitionDetection(),
	}
	if err := yaml.Unmarshal(encoded, cfg); err != nil {
		return nil, &Error{Kind: ParseError, Detail: err.Error()}
	}
	return cfg, nil
}
