package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"storefront/internal/core/port"
)

// MemoryStore keeps sessions in process. Entries expire with their TTL and
// are swept by go-cache's janitor.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(ttl time.Duration) port.SessionStore {
	return &MemoryStore{
		cache: cache.New(ttl, ttl*2),
	}
}

func (ms *MemoryStore) Save(_ context.Context, sessionID string, accountID string, ttl time.Duration) error {
	ms.cache.Set(sessionID, accountID, ttl)
	return nil
}

func (ms *MemoryStore) Find(_ context.Context, sessionID string) (string, bool, error) {
	value, found := ms.cache.Get(sessionID)

	if !found {
		return "", false, nil
	}

	accountID, ok := value.(string)

	return accountID, ok, nil
}

func (ms *MemoryStore) Delete(_ context.Context, sessionID string) error {
	ms.cache.Delete(sessionID)
	return nil
}

func (ms *MemoryStore) Close() error {
	ms.cache.Flush()
	return nil
}
