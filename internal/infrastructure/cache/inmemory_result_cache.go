package cache

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/tradesphere/antiscam/internal/domain/scamcheck"
)

type memoryEntry struct {
	result    scamcheck.AggregateResult
	expiresAt time.Time
}

type hitCounter struct {
	count     int64
	expiresAt time.Time
}

// InMemoryResultCache implements scamcheck.ResultCache using an in-memory map.
// This is suitable for single-instance deployments and testing. Hit counters
// live under their own scope:keyword:hits key with the entry TTL, matching
// the Redis layout.
type InMemoryResultCache struct {
	mu        sync.RWMutex
	entries   map[string]*memoryEntry
	hits      map[string]*hitCounter
	namespace string
	ttl       time.Duration
}

// NewInMemoryResultCache creates a new in-memory result cache.
func NewInMemoryResultCache(ttl time.Duration) *InMemoryResultCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &InMemoryResultCache{
		entries:   make(map[string]*memoryEntry),
		hits:      make(map[string]*hitCounter),
		namespace: DefaultNamespace,
		ttl:       ttl,
	}
}

func (c *InMemoryResultCache) key(scope, keyword string) string {
	return c.namespace + scope + ":" + keyword
}

// Get returns the cached result for scope:keyword, or false on a miss.
func (c *InMemoryResultCache) Get(ctx context.Context, scope, keyword string) (*scamcheck.AggregateResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[c.key(scope, keyword)]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, false
	}
	result := e.result
	return &result, true
}

// Put stores a result under scope:keyword for the configured TTL.
func (c *InMemoryResultCache) Put(ctx context.Context, scope, keyword string, result scamcheck.AggregateResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[c.key(scope, keyword)] = &memoryEntry{
		result:    result,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// IncrementHit bumps the hit counter for scope:keyword. The counter is
// created on first use and shares the entry TTL, so it does not outlive
// the result it counts.
func (c *InMemoryResultCache) IncrementHit(ctx context.Context, scope, keyword string) (int64, error) {
	key := c.key(scope, keyword) + ":hits"

	c.mu.Lock()
	defer c.mu.Unlock()

	h, exists := c.hits[key]
	if !exists || time.Now().After(h.expiresAt) {
		h = &hitCounter{expiresAt: time.Now().Add(c.ttl)}
		c.hits[key] = h
	}
	h.count++
	return h.count, nil
}

// ClearPattern removes entries and hit counters matching the glob pattern
// within the namespace.
func (c *InMemoryResultCache) ClearPattern(ctx context.Context, pattern string) (int, error) {
	if pattern == "" {
		pattern = "*"
	}
	match := c.namespace + pattern

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if ok, _ := path.Match(match, key); ok {
			delete(c.entries, key)
			removed++
		}
	}
	for key := range c.hits {
		if ok, _ := path.Match(match, key); ok {
			delete(c.hits, key)
			removed++
		}
	}
	return removed, nil
}

// Stats reports cache usage, counting hit counters as keys the way the
// Redis namespace scan does. Memory usage is not tracked for the in-memory
// implementation.
func (c *InMemoryResultCache) Stats(ctx context.Context) (scamcheck.CacheStats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := int64(len(c.entries) + len(c.hits))
	return scamcheck.CacheStats{TotalKeys: n, SearchKeys: n}, nil
}

// Size returns the number of entries in the cache (for testing/monitoring)
func (c *InMemoryResultCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryResultCache implements ResultCache
var _ scamcheck.ResultCache = (*InMemoryResultCache)(nil)
