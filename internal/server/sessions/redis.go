package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/filekeeper/internal/common"
)

// RedisStore keeps sessions in Redis with per-key TTL (SET ... EX).
// Redis evicts expired keys on its own; the application never polls.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// NewRedisStoreWithClient wraps an existing client. Used in tests.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+token, userID, ttl).Err(); err != nil {
		return fmt.Errorf("session store error: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("session store error: %w", err)
	}
	return userID, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("session store error: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client connections.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
