package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyKey = errors.New("cache key is empty")
	ErrNilCache = errors.New("nil cache")
)

// Cache is the key/value store shared by session state, response memoization
// and tool result memoization. Values are JSON encoded by every backend.
// Get reports found=false for absent keys; errors are reserved for transport
// and decode failures.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// GetValue reads key into a T. Absence and any backend or decode failure are
// both reported as a miss.
func GetValue[T any](ctx context.Context, c Cache, key string) (T, bool) {
	var out T
	if c == nil {
		return out, false
	}
	found, err := c.Get(ctx, key, &out)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache read failed, treating as miss")
		var zero T
		return zero, false
	}
	return out, found
}

// SetValue writes value and absorbs failures.
func SetValue(ctx context.Context, c Cache, key string, value any, ttl time.Duration) {
	if c == nil {
		return
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Dur("ttl", ttl).Msg("cache write failed")
	}
}

func ttlSeconds(ttl time.Duration) int64 {
	seconds := ttl / time.Second
	if seconds <= 0 {
		return 1
	}
	if ttl%time.Second != 0 {
		seconds++
	}
	return int64(seconds)
}
