package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	data map[string]any
	typ  SourceType
}

func (m *mockSource) Load() (map[string]any, error) { return m.data, nil }
func (m *mockSource) Type() SourceType               { return m.typ }

func TestLoader_Load(t *testing.T) {
	t.Run("Should return empty agents map when no sources provided", func(t *testing.T) {
		loader := NewLoader()
		cfg, err := loader.Load(t.Context())
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Empty(t, cfg.Agents)
	})

	t.Run("Should apply sources in precedence order", func(t *testing.T) {
		loader := NewLoader()
		source1 := &mockSource{
			data: map[string]any{"agents": map[string]any{"root": "claude-code", "rules": "claude-code"}},
			typ:  SourceYAML,
		}
		source2 := &mockSource{
			data: map[string]any{"agents": map[string]any{"rules": "qwen-coder"}},
			typ:  SourceTOML,
		}
		cfg, err := loader.Load(t.Context(), source1, source2)
		require.NoError(t, err)
		assert.Equal(t, "claude-code", cfg.Agents["root"])
		assert.Equal(t, "qwen-coder", cfg.Agents["rules"])
	})
}

func TestFileSource_PrefersYAML(t *testing.T) {
	t.Run("Should prefer sah.yaml over sah.toml when both exist", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "sah.yaml"), []byte("agents:\n  root: from-yaml\n"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "sah.toml"), []byte("[agents]\nroot = \"from-toml\"\n"), 0o600))

		src := NewFileSource(dir)
		assert.Equal(t, SourceYAML, src.Type())

		loader := NewLoader()
		cfg, err := loader.Load(t.Context(), src)
		require.NoError(t, err)
		assert.Equal(t, "from-yaml", cfg.Agents["root"])
	})

	t.Run("Should fall back to sah.toml when sah.yaml is absent", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "sah.toml"), []byte("[agents]\nroot = \"from-toml\"\n"), 0o600))

		src := NewFileSource(dir)
		assert.Equal(t, SourceTOML, src.Type())

		loader := NewLoader()
		cfg, err := loader.Load(t.Context(), src)
		require.NoError(t, err)
		assert.Equal(t, "from-toml", cfg.Agents["root"])
	})

	t.Run("Should return empty data when neither file exists", func(t *testing.T) {
		dir := t.TempDir()
		src := NewFileSource(dir)
		data, err := src.Load()
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("Should reject a config file over 10MiB", func(t *testing.T) {
		dir := t.TempDir()
		big := make([]byte, 11*1024*1024)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "sah.yaml"), big, 0o600))
		src := NewFileSource(dir)
		_, err := src.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "10MiB")
	})
}
