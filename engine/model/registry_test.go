package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModel(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0o600))
}

const claudeDoc = "executor:\n  type: claude-code\n  config: {}\n"
const llamaDoc = "executor:\n  type: llama-agent\n  config:\n    model:\n      local:\n        filename: x.gguf\n    mcp_server:\n      port: 0\n"

func TestRegistry_List_PrecedenceMonotonicity(t *testing.T) {
	t.Run("Should let a higher scope win for the same name without dropping distinct names", func(t *testing.T) {
		base := t.TempDir()
		projectDir := filepath.Join(base, "project", "models")
		gitRootDir := filepath.Join(base, "repo", ".swissarmyhammer", "models")
		userDir := filepath.Join(base, "home", ".swissarmyhammer", "models")

		writeModel(t, projectDir, "qwen-coder", claudeDoc)
		writeModel(t, gitRootDir, "qwen-coder", llamaDoc)
		writeModel(t, projectDir, "project-only", claudeDoc)

		reg := NewRegistry([]Root{
			{Scope: Project, Dir: projectDir},
			{Scope: GitRoot, Dir: gitRootDir},
			{Scope: User, Dir: userDir},
		}, nil)

		all, err := reg.List(t.Context())
		require.NoError(t, err)

		names := map[string]Info{}
		for _, i := range all {
			names[i.Name] = i
		}
		require.Contains(t, names, "qwen-coder")
		require.Contains(t, names, "project-only")
		require.Contains(t, names, "claude-code") // builtin
		assert.Equal(t, GitRoot, names["qwen-coder"].Scope, "git-root should win over project for the same name")
	})

	t.Run("Should treat a missing root as an empty contribution, never an error", func(t *testing.T) {
		reg := NewRegistry([]Root{{Scope: Project, Dir: filepath.Join(t.TempDir(), "does-not-exist")}}, nil)
		all, err := reg.List(t.Context())
		require.NoError(t, err)
		assert.Len(t, all, 1) // just the builtin
	})
}

func TestRegistry_FindByName(t *testing.T) {
	t.Run("Should return NotFound for an unknown model", func(t *testing.T) {
		reg := NewRegistry(nil, nil)
		_, err := reg.FindByName(t.Context(), "nope")
		require.Error(t, err)
		var modelErr *Error
		require.ErrorAs(t, err, &modelErr)
		assert.Equal(t, NotFound, modelErr.Kind)
	})
	t.Run("Should reject a traversal-style agent name before touching disk", func(t *testing.T) {
		reg := NewRegistry(nil, nil)
		_, err := reg.FindByName(t.Context(), "../../etc/passwd")
		require.Error(t, err)
		var modelErr *Error
		require.ErrorAs(t, err, &modelErr)
		assert.Equal(t, InvalidPath, modelErr.Kind)
	})
}

func TestRegistry_ResolveForUseCase(t *testing.T) {
	t.Run("Should fall back to root then default per spec scenario 2", func(t *testing.T) {
		projectDir := t.TempDir()
		confDir := filepath.Join(projectDir, ".swissarmyhammer")
		require.NoError(t, os.MkdirAll(confDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(confDir, "sah.yaml"), []byte("agents:\n  root: claude-code\n"), 0o600))

		reg := NewRegistry(nil, nil)
		cfg, err := reg.ResolveForUseCase(t.Context(), projectDir, UseCaseRules)
		require.NoError(t, err)
		assert.Equal(t, ClaudeCode, cfg.Executor.Type)
	})

	t.Run("Should use a use-case-specific override when present", func(t *testing.T) {
		projectDir := t.TempDir()
		confDir := filepath.Join(projectDir, ".swissarmyhammer")
		modelsDir := filepath.Join(confDir, "models")
		require.NoError(t, os.MkdirAll(confDir, 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(confDir, "sah.yaml"),
			[]byte("agents:\n  root: claude-code\n  rules: qwen-coder\n"),
			0o600,
		))
		writeModel(t, modelsDir, "qwen-coder", llamaDoc)

		reg := NewRegistry([]Root{{Scope: GitRoot, Dir: modelsDir}}, nil)
		cfg, err := reg.ResolveForUseCase(t.Context(), projectDir, UseCaseRules)
		require.NoError(t, err)
		assert.Equal(t, LlamaAgent, cfg.Executor.Type)
	})

	t.Run("Should default to claude-code when no config file exists", func(t *testing.T) {
		reg := NewRegistry(nil, nil)
		cfg, err := reg.ResolveForUseCase(t.Context(), t.TempDir(), UseCaseRoot)
		require.NoError(t, err)
		assert.Equal(t, ClaudeCode, cfg.Executor.Type)
	})
}
