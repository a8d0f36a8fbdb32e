package llm

import (
	"sync"
	"time"

	"github.com/Veraticus/sol-search/internal/model"
)

// cacheEntry represents a cached model classification.
type cacheEntry struct {
	expiry time.Time
	result model.ClassifiedIntent
}

// resultCache provides thread-safe caching for model classifications.
type resultCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
	once    sync.Once
}

// newResultCache creates a new cache with the specified TTL.
func newResultCache(ttl time.Duration) *resultCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	cache := &resultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go cache.cleanup()

	return cache
}

func cacheKey(query string, anchor time.Time) string {
	return anchor.Format(model.DateLayout) + "|" + query
}

// get retrieves a copy of a cached result if it exists and hasn't expired.
func (c *resultCache) get(key string) (model.ClassifiedIntent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return model.ClassifiedIntent{}, false
	}

	if time.Now().After(entry.expiry) {
		return model.ClassifiedIntent{}, false
	}

	return entry.result.Clone(), true
}

// set stores a copy of result in the cache.
func (c *resultCache) set(key string, result model.ClassifiedIntent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		result: result.Clone(),
		expiry: time.Now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *resultCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// size returns the number of entries in the cache.
func (c *resultCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine.
func (c *resultCache) Close() {
	c.once.Do(func() { close(c.stopCh) })
}
