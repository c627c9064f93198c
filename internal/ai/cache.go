package ai

import (
	"strings"
	"sync"
	"time"
)

const (
	cacheSweepEvery  = 10 * time.Minute
	cacheSweepCutoff = 15 * time.Minute

	classifierCacheTTL = 10 * time.Minute
	decomposerCacheTTL = 5 * time.Minute
)

type cacheEntry struct {
	value      any
	insertedAt time.Time
}

// ttlCache memoizes classifier and decomposer results. Expiry is lazy: a read
// past the entry's TTL misses, and at most once per sweep interval a full pass
// purges everything older than the sweep cutoff. No background goroutine.
type ttlCache struct {
	mu        sync.Mutex
	entries   map[string]cacheEntry
	lastSweep time.Time
	now       func() time.Time
}

func newTTLCache() *ttlCache {
	return &ttlCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *ttlCache) get(key string, ttl time.Duration) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.insertedAt) > ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (c *ttlCache) put(key string, value any) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()
	c.entries[key] = cacheEntry{value: value, insertedAt: c.now()}
}

func (c *ttlCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ttlCache) sweepLocked() {
	now := c.now()
	if c.lastSweep.IsZero() {
		c.lastSweep = now
		return
	}
	if now.Sub(c.lastSweep) < cacheSweepEvery {
		return
	}
	c.lastSweep = now
	for key, entry := range c.entries {
		if now.Sub(entry.insertedAt) > cacheSweepCutoff {
			delete(c.entries, key)
		}
	}
}

func cacheKey(kind, query string) string {
	return kind + "|" + strings.ToLower(strings.TrimSpace(query))
}
