package issue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create every item in request order", func(t *testing.T) {
		s := newTestStore(t)

		created, err := s.CreateBatch(ctx, []BatchItem{
			{Name: "one", Content: "1"},
			{Name: "two", Content: "2"},
		})
		require.NoError(t, err)
		require.Len(t, created, 2)
		assert.Equal(t, "one", created[0].Name)
		assert.Equal(t, "two", created[1].Name)
	})
}

func TestStore_GetBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Should fail the whole batch when one name is missing", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.Create(ctx, "exists", "content")
		require.NoError(t, err)

		_, err = s.GetBatch(ctx, []string{"exists", "missing"})
		require.Error(t, err)
	})

	t.Run("Should return all issues when every name resolves", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.Create(ctx, "a", "1")
		require.NoError(t, err)
		_, err = s.Create(ctx, "b", "2")
		require.NoError(t, err)

		got, err := s.GetBatch(ctx, []string{"a", "b"})
		require.NoError(t, err)
		require.Len(t, got, 2)
	})
}

func TestStore_UpdateBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Should leave every issue unmodified when one name is missing", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.Create(ctx, "a", "v1")
		require.NoError(t, err)

		_, err = s.UpdateBatch(ctx, []BatchItem{
			{Name: "a", Content: "v2"},
			{Name: "missing", Content: "v2"},
		})
		require.Error(t, err)

		got, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "v1", got.Content)
	})

	t.Run("Should update every issue when all names resolve", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.Create(ctx, "a", "v1")
		require.NoError(t, err)
		_, err = s.Create(ctx, "b", "v1")
		require.NoError(t, err)

		updated, err := s.UpdateBatch(ctx, []BatchItem{
			{Name: "a", Content: "v2"},
			{Name: "b", Content: "v2"},
		})
		require.NoError(t, err)
		require.Len(t, updated, 2)
	})
}

func TestStore_MarkCompleteBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Should leave every issue unmodified when one name is missing", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.Create(ctx, "a", "content")
		require.NoError(t, err)

		_, err = s.MarkCompleteBatch(ctx, []string{"a", "missing"})
		require.Error(t, err)

		got, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "content", got.Content)
	})

	t.Run("Should complete every issue when all names resolve", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.Create(ctx, "a", "1")
		require.NoError(t, err)
		_, err = s.Create(ctx, "b", "2")
		require.NoError(t, err)

		infos, err := s.MarkCompleteBatch(ctx, []string{"a", "b"})
		require.NoError(t, err)
		require.Len(t, infos, 2)
		for _, info := range infos {
			assert.True(t, info.Completed)
		}
	})
}
