package llm

import (
	"sync"
	"time"
)

const (
	defaultCacheTTL   = 15 * time.Minute
	cacheSweepEntries = 256
)

type cacheEntry struct {
	expiry time.Time
	result Result
}

// resultCache holds AI verdicts keyed by normalized payee name.
type resultCache struct {
	entries map[string]cacheEntry
	now     func() time.Time
	ttl     time.Duration
	mu      sync.RWMutex
}

func newResultCache(ttl time.Duration) *resultCache {
	if ttl == 0 {
		ttl = defaultCacheTTL
	}

	return &resultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// get returns a cached result if present and not expired. A negative TTL
// disables caching.
func (c *resultCache) get(key string) (Result, bool) {
	if c.ttl < 0 {
		return Result{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || c.now().After(entry.expiry) {
		return Result{}, false
	}

	return entry.result, true
}

func (c *resultCache) set(key string, result Result) {
	if c.ttl < 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = cacheEntry{result: result, expiry: now.Add(c.ttl)}

	if len(c.entries)%cacheSweepEntries == 0 {
		for k, entry := range c.entries {
			if now.After(entry.expiry) {
				delete(c.entries, k)
			}
		}
	}
}

func (c *resultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

func (c *resultCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
