package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	const body = `
name: greet
start: say_hello
states:
  say_hello:
    name: say_hello
    description: Log "hello"
    transitions:
      - to: done
  done:
    name: done
    terminal: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "greet.yaml"), []byte(body), 0o644))
	store := NewFileStore(dir)

	t.Run("Should report a workflow file exists", func(t *testing.T) {
		ok, err := store.Exists(context.Background(), "greet")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Should report a missing workflow does not exist", func(t *testing.T) {
		ok, err := store.Exists(context.Background(), "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Should load and validate a workflow definition", func(t *testing.T) {
		def, err := store.Load(context.Background(), "greet")
		require.NoError(t, err)
		assert.Equal(t, "say_hello", def.Start)
		assert.Len(t, def.States, 2)
	})

	t.Run("Should reject a definition whose start state is undefined", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: broken\nstart: nope\nstates:\n  done:\n    name: done\n    terminal: true\n"), 0o644))
		_, err := store.Load(context.Background(), "broken")
		require.Error(t, err)
	})

	t.Run("Should reject a definition transitioning to an undefined state", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "dangling.yaml"), []byte("name: dangling\nstart: s1\nstates:\n  s1:\n    name: s1\n    transitions:\n      - to: ghost\n"), 0o644))
		_, err := store.Load(context.Background(), "dangling")
		require.Error(t, err)
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	store.Register(&Definition{Name: "a", Start: "s", States: map[string]*State{"s": {Name: "s", Terminal: true}}})

	t.Run("Should resolve a registered workflow", func(t *testing.T) {
		ok, err := store.Exists(context.Background(), "a")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Should fail loading an unregistered workflow", func(t *testing.T) {
		_, err := store.Load(context.Background(), "b")
		require.Error(t, err)
	})
}
