package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	defer store.Close()

	t.Run("should find a saved session", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "sid", "account", time.Hour))

		accountID, found, err := store.Find(ctx, "sid")

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "account", accountID)
	})

	t.Run("should forget a deleted session", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "gone", "account", time.Hour))
		require.NoError(t, store.Delete(ctx, "gone"))

		_, found, err := store.Find(ctx, "gone")

		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("should expire sessions", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "short", "account", 10*time.Millisecond))

		time.Sleep(30 * time.Millisecond)

		_, found, err := store.Find(ctx, "short")

		require.NoError(t, err)
		assert.False(t, found)
	})
}
