package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisL2Store is the production L2Store, backed by go-redis. A cache miss
// is reported as (nil, false, nil); only genuine client/network errors
// become the error return, letting Tier treat both misses and errors the
// same way on the read path while still logging the latter.
type RedisL2Store struct {
	client *redis.Client
}

// NewRedisL2Store builds an L2Store against a Redis endpoint
// ("host:port" or a redis:// URL accepted by redis.ParseURL).
func NewRedisL2Store(addr string) (*RedisL2Store, error) {
	opts := &redis.Options{Addr: addr}
	if parsed, err := redis.ParseURL(addr); err == nil {
		opts = parsed
	}
	return &RedisL2Store{client: redis.NewClient(opts)}, nil
}

func (s *RedisL2Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *RedisL2Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Ping checks connectivity, used by the readiness probe (spec.md §6).
func (s *RedisL2Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (s *RedisL2Store) Close() error {
	return s.client.Close()
}
