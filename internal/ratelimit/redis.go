package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore counts requests per key in a fixed window. INCR creates the key
// at 1 and the first increment attaches the TTL, so the window resets itself
// without any sweeper.
type RedisStore struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, limit int64, window time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

func (s *RedisStore) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := s.prefix + ":" + key
	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, s.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= s.limit, nil
}
