package session

import (
	"context"
	"fmt"

	"storefront/internal/core/port"
	"storefront/pkg/config"
)

// NewStore builds the store named by cfg.Store ("memory" or "redis").
func NewStore(ctx context.Context, cfg config.SessionConfig) (port.SessionStore, error) {
	switch cfg.Store {
	case "", "memory":
		return NewMemoryStore(cfg.TTL), nil
	case "redis":
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}
