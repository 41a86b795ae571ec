package cache

import (
	"context"
	"sync"
	"time"
)

const (
	defaultMemoryTTL      = 5 * time.Minute
	defaultMemoryCapacity = 4096
)

// MemoryCache is an in-process Cache. Entries expire after a TTL and the
// map is bounded; expired and overflow entries are pruned on write. For
// multi-instance deployments use RedisCache instead.
type MemoryCache struct {
	mu       sync.RWMutex
	entries  map[string]memoryEntry
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

type memoryEntry struct {
	value   Entry
	expires time.Time
}

// MemoryOption applies a configuration option to the MemoryCache.
type MemoryOption func(*MemoryCache)

// WithTTL sets the entry lifetime.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(c *MemoryCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCapacity bounds the number of live entries.
func WithCapacity(n int) MemoryOption {
	return func(c *MemoryCache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// NewMemoryCache creates an in-memory prediction cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		entries:  make(map[string]memoryEntry),
		ttl:      defaultMemoryTTL,
		capacity: defaultMemoryCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached entry for key, if present and unexpired.
func (c *MemoryCache) Get(_ context.Context, key string) (Entry, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expires) {
		return Entry{}, false, nil
	}
	return e.value, true, nil
}

// Put stores an entry, pruning expired entries when the cache is full.
func (c *MemoryCache) Put(_ context.Context, key string, e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.capacity {
		now := c.now()
		for k, v := range c.entries {
			if now.After(v.expires) {
				delete(c.entries, k)
			}
		}
		// Still full after pruning: drop arbitrary entries to make room.
		for k := range c.entries {
			if len(c.entries) < c.capacity {
				break
			}
			delete(c.entries, k)
		}
	}

	c.entries[key] = memoryEntry{value: e, expires: c.now().Add(c.ttl)}
	return nil
}

// Len returns the number of stored entries, including not-yet-pruned
// expired ones.
func (c *MemoryCache) Len(_ context.Context) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
