package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrent(t *testing.T) {
	t.Run("should round trip values through the context", func(t *testing.T) {
		current := NewCurrent()
		current.Set(RequestIDKey, "req-1")

		ctx := WithCurrent(context.Background(), current)
		got, ok := FromContext(ctx)

		assert.True(t, ok)
		assert.Equal(t, "req-1", got.RequestID())
	})

	t.Run("should return an empty current outside a request", func(t *testing.T) {
		current := GetCurrent(context.Background())

		assert.NotNil(t, current)
		assert.Empty(t, current.All())
	})

	t.Run("should report a missing account", func(t *testing.T) {
		current := NewCurrent()

		_, ok := current.AccountID()
		assert.False(t, ok)

		current.Set(AccountIDKey, "")
		_, ok = current.AccountID()
		assert.False(t, ok)

		current.Set(AccountIDKey, "abc")
		id, ok := current.AccountID()
		assert.True(t, ok)
		assert.Equal(t, "abc", id)
	})

	t.Run("should keep requests isolated", func(t *testing.T) {
		first := NewCurrent()
		second := NewCurrent()

		first.Set(AccountIDKey, "a")

		assert.False(t, second.Exists(AccountIDKey))

		first.Delete(AccountIDKey)
		assert.False(t, first.Exists(AccountIDKey))
	})
}
