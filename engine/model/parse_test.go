package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDescription(t *testing.T) {
	t.Run("Should prefer frontmatter description over comment", func(t *testing.T) {
		text := "---\ndescription: From frontmatter\n---\n# Description: From comment\nexecutor:\n  type: claude-code\n"
		assert.Equal(t, "From frontmatter", ParseDescription(text))
	})
	t.Run("Should fall back to the first description comment line", func(t *testing.T) {
		text := "# Description: A handy model\nexecutor:\n  type: claude-code\n"
		assert.Equal(t, "A handy model", ParseDescription(text))
	})
	t.Run("Should return empty when neither is present", func(t *testing.T) {
		text := "executor:\n  type: claude-code\n"
		assert.Empty(t, ParseDescription(text))
	})
}

func TestParseConfig(t *testing.T) {
	t.Run("Should parse a claude-code document without frontmatter", func(t *testing.T) {
		text := "executor:\n  type: claude-code\n  config:\n    claude_path: /usr/bin/claude\n    args: [\"--foo\"]\nquiet: true\n"
		cfg, err := ParseConfig(text)
		require.NoError(t, err)
		assert.Equal(t, ClaudeCode, cfg.Executor.Type)
		assert.True(t, cfg.Quiet)
		require.NotNil(t, cfg.Executor.ClaudeCode)
		assert.Equal(t, "/usr/bin/claude", cfg.Executor.ClaudeCode.ClaudePath)
		assert.Equal(t, []string{"--foo"}, cfg.Executor.ClaudeCode.Args)
	})
	t.Run("Should parse the body after frontmatter", func(t *testing.T) {
		text := "---\ndescription: x\n---\nexecutor:\n  type: claude-code\n  config: {}\n"
		cfg, err := ParseConfig(text)
		require.NoError(t, err)
		assert.Equal(t, ClaudeCode, cfg.Executor.Type)
	})
	t.Run("Should parse a llama-agent document with defaults applied", func(t *testing.T) {
		text := "executor:\n  type: llama-agent\n  config:\n    model:\n      local:\n        filename: model.gguf\n    mcp_server:\n      port: 0\n"
		cfg, err := ParseConfig(text)
		require.NoError(t, err)
		require.NotNil(t, cfg.Executor.LlamaAgent)
		assert.Equal(t, uint32(512), cfg.Executor.LlamaAgent.BatchSize)
		assert.True(t, cfg.Executor.LlamaAgent.UseHFParams)
		assert.Equal(t, "model.gguf", cfg.Executor.LlamaAgent.Model.Local.Filename)
		assert.True(t, cfg.Executor.LlamaAgent.RepetitionDetection.Enabled)
	})
	t.Run("Should reject an unknown executor type", func(t *testing.T) {
		_, err := ParseConfig("executor:\n  type: bogus\n")
		require.Error(t, err)
		var modelErr *Error
		require.ErrorAs(t, err, &modelErr)
		assert.Equal(t, ParseError, modelErr.Kind)
	})
}
