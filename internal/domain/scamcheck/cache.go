package scamcheck

import "context"

// CacheStats is a snapshot of result cache usage.
type CacheStats struct {
	TotalKeys    int64   `json:"total_keys"`
	SearchKeys   int64   `json:"search_keys"`
	UsedMemoryMB float64 `json:"used_memory_mb"`
}

// ResultCache stores aggregation results keyed by scope and keyword.
// Implementations degrade to a miss when the backing store is unreachable;
// a lookup must never fail because the cache is down.
type ResultCache interface {
	// Get returns the cached result for scope:keyword, or false on a miss.
	Get(ctx context.Context, scope, keyword string) (*AggregateResult, bool)

	// Put stores a result under scope:keyword for the configured TTL.
	Put(ctx context.Context, scope, keyword string, result AggregateResult) error

	// IncrementHit bumps the hit counter for scope:keyword and returns
	// the new count.
	IncrementHit(ctx context.Context, scope, keyword string) (int64, error)

	// ClearPattern removes entries matching the glob pattern within the
	// cache namespace and returns how many were removed. An empty pattern
	// clears the whole namespace.
	ClearPattern(ctx context.Context, pattern string) (int, error)

	// Stats reports cache usage.
	Stats(ctx context.Context) (CacheStats, error)
}
