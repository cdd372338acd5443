package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSlot stores the value under one namespaced Redis key.
type RedisSlot struct {
	redis redis.UniversalClient
	key   string
	ttl   time.Duration
}

// NewRedisSlot returns a slot stored at prefix + ":" + key. A ttl of zero
// keeps the value until Clear.
func NewRedisSlot(client redis.UniversalClient, prefix, key string, ttl time.Duration) *RedisSlot {
	if key == "" {
		key = DefaultKey
	}
	full := key
	if prefix != "" {
		full = prefix + ":" + key
	}
	return &RedisSlot{redis: client, key: full, ttl: ttl}
}

func (s *RedisSlot) Key() string { return s.key }

func (s *RedisSlot) Load(ctx context.Context) ([]byte, error) {
	data, err := s.redis.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return data, nil
}

func (s *RedisSlot) Store(ctx context.Context, data []byte) error {
	if err := s.redis.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

func (s *RedisSlot) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

func (s *RedisSlot) Backend() string { return "redis" }
