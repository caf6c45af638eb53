package codestore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "mfa:challenge:"

// RedisStore is a Store backed by redis, for multi-instance deployments.
// Expiry is enforced by redis key TTLs.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore returns a store using the given redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, userID, method, codeHash string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, redisPrefix+key(userID, method), codeHash, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, userID, method string) (string, bool, error) {
	v, err := s.client.Get(ctx, redisPrefix+key(userID, method)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, userID, method string) error {
	return s.client.Del(ctx, redisPrefix+key(userID, method)).Err()
}
