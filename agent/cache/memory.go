package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps JSON payloads in process. Values are stored encoded so
// readers never share mutable state with writers.
type MemoryCache struct {
	store *gocache.Cache
}

var _ Cache = (*MemoryCache)(nil)

func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultTTL, cleanupInterval)}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, ErrEmptyKey
	}
	raw, found := c.store.Get(key)
	if !found {
		return false, nil
	}
	payload, ok := raw.([]byte)
	if !ok {
		return false, fmt.Errorf("unexpected cache entry type %T", raw)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("unmarshal cache value: %w", err)
	}
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.store.Set(key, payload, ttl)
	return nil
}

// Delete is used by tests to simulate eviction.
func (c *MemoryCache) Delete(key string) {
	c.store.Delete(key)
}
