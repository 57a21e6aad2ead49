package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"storefront/internal/core/port"
)

const redisKeyPrefix = "storefront:session:"

// RedisStore shares sessions between API instances.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, addr, password string, db int) (port.SessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}

	return &RedisStore{client: client}, nil
}

func (rs *RedisStore) Save(ctx context.Context, sessionID string, accountID string, ttl time.Duration) error {
	return errors.Wrap(rs.client.Set(ctx, redisKeyPrefix+sessionID, accountID, ttl).Err(), "save session")
}

func (rs *RedisStore) Find(ctx context.Context, sessionID string) (string, bool, error) {
	accountID, err := rs.client.Get(ctx, redisKeyPrefix+sessionID).Result()

	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, errors.Wrap(err, "find session")
	}

	return accountID, true, nil
}

func (rs *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return errors.Wrap(rs.client.Del(ctx, redisKeyPrefix+sessionID).Err(), "delete session")
}

func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
