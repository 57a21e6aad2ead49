package context

import (
	"context"
	"sync"
)

// Keys set by the request middleware chain.
const (
	RequestIDKey = "request_id"
	AccountIDKey = "account_id"
	ClientIPKey  = "ip_address"
	UserAgentKey = "user_agent"
)

// Current holds per-request attributes. A fresh value is created for every
// request and travels in the request context; there is no process-wide
// instance.
type Current struct {
	mu   sync.RWMutex
	data map[string]any
}

func NewCurrent() *Current {
	return &Current{
		data: make(map[string]any),
	}
}

func (c *Current) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

func (c *Current) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data[key]
}

func (c *Current) GetString(key string) (string, bool) {
	str, ok := c.Get(key).(string)
	return str, ok
}

func (c *Current) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

func (c *Current) Exists(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.data[key]
	return exists
}

func (c *Current) All() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]any, len(c.data))
	for k, v := range c.data {
		result[k] = v
	}
	return result
}

// RequestID returns the request id or "" when none was assigned.
func (c *Current) RequestID() string {
	id, _ := c.GetString(RequestIDKey)
	return id
}

// AccountID returns the authenticated account UUID, if any.
func (c *Current) AccountID() (string, bool) {
	id, ok := c.GetString(AccountIDKey)
	return id, ok && id != ""
}

type contextKey string

const currentKey contextKey = "current"

func WithCurrent(ctx context.Context, current *Current) context.Context {
	return context.WithValue(ctx, currentKey, current)
}

func FromContext(ctx context.Context) (*Current, bool) {
	current, ok := ctx.Value(currentKey).(*Current)
	return current, ok
}

// GetCurrent returns the request's Current or an empty one so callers
// outside a request never see nil.
func GetCurrent(ctx context.Context) *Current {
	if current, ok := FromContext(ctx); ok {
		return current
	}

	return NewCurrent()
}
