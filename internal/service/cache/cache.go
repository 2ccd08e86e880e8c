package cache

import (
	"context"
	"time"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Config selects the backing store.
type Config struct {
	Redis   bool
	Options RedisConfig
}

// New returns a Redis-backed cache when enabled, otherwise an in-process one.
func New(cfg Config) BytesCache {
	if cfg.Redis {
		return NewRedisCache(cfg.Options)
	}
	return NewTTLCache()
}
