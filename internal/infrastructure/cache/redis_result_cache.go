package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tradesphere/antiscam/internal/domain/scamcheck"
	"go.uber.org/zap"
)

// DefaultNamespace prefixes every result cache key.
const DefaultNamespace = "scam:search:"

// RedisResultCache implements scamcheck.ResultCache on Redis. All reads
// degrade to a miss when Redis is unreachable so lookups keep working
// without the cache.
type RedisResultCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
	logger    *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisResultCache connects to Redis and returns a result cache.
func NewRedisResultCache(cfg RedisConfig, namespace string, ttl time.Duration, logger *zap.Logger) (*RedisResultCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisResultCacheWithClient(client, namespace, ttl, logger), nil
}

// NewRedisResultCacheWithClient creates a cache with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisResultCacheWithClient(client *redis.Client, namespace string, ttl time.Duration, logger *zap.Logger) *RedisResultCache {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisResultCache{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
		logger:    logger,
	}
}

func (c *RedisResultCache) key(scope, keyword string) string {
	return c.namespace + scope + ":" + keyword
}

// Get returns the cached result for scope:keyword, or false on a miss.
// Redis errors and corrupt payloads are logged and reported as misses.
func (c *RedisResultCache) Get(ctx context.Context, scope, keyword string) (*scamcheck.AggregateResult, bool) {
	key := c.key(scope, keyword)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("result cache read failed, treating as miss",
				zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var result scamcheck.AggregateResult
	if err := json.Unmarshal(payload, &result); err != nil {
		c.logger.Warn("corrupt cache payload, treating as miss",
			zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &result, true
}

// Put stores a result under scope:keyword for the configured TTL.
func (c *RedisResultCache) Put(ctx context.Context, scope, keyword string, result scamcheck.AggregateResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode cache payload: %w", err)
	}

	key := c.key(scope, keyword)
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cache entry %s: %w", key, err)
	}
	return nil
}

// IncrementHit bumps the hit counter stored next to the entry. The counter
// shares the entry TTL so it does not outlive the result it counts.
func (c *RedisResultCache) IncrementHit(ctx context.Context, scope, keyword string) (int64, error) {
	key := c.key(scope, keyword) + ":hits"

	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment hit counter %s: %w", key, err)
	}
	if count == 1 {
		c.client.Expire(ctx, key, c.ttl)
	}
	return count, nil
}

// ClearPattern removes entries matching the glob pattern within the cache
// namespace. An empty pattern clears the whole namespace. Returns how many
// keys were removed.
func (c *RedisResultCache) ClearPattern(ctx context.Context, pattern string) (int, error) {
	if pattern == "" {
		pattern = "*"
	}
	match := c.namespace + pattern

	var removed int
	iter := c.client.Scan(ctx, 0, match, 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			n, err := c.client.Del(ctx, batch...).Result()
			if err != nil {
				return removed, fmt.Errorf("failed to delete cache keys: %w", err)
			}
			removed += int(n)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to scan cache keys: %w", err)
	}
	if len(batch) > 0 {
		n, err := c.client.Del(ctx, batch...).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to delete cache keys: %w", err)
		}
		removed += int(n)
	}
	return removed, nil
}

// Stats reports total database keys, keys within the cache namespace, and
// used memory parsed from INFO.
func (c *RedisResultCache) Stats(ctx context.Context) (scamcheck.CacheStats, error) {
	stats := scamcheck.CacheStats{}

	total, err := c.client.DBSize(ctx).Result()
	if err != nil {
		return stats, fmt.Errorf("failed to read database size: %w", err)
	}
	stats.TotalKeys = total

	iter := c.client.Scan(ctx, 0, c.namespace+"*", 100).Iterator()
	for iter.Next(ctx) {
		stats.SearchKeys++
	}
	if err := iter.Err(); err != nil {
		return stats, fmt.Errorf("failed to scan cache namespace: %w", err)
	}

	info, err := c.client.Info(ctx, "memory").Result()
	if err != nil {
		return stats, fmt.Errorf("failed to read memory info: %w", err)
	}
	stats.UsedMemoryMB = parseUsedMemoryMB(info)

	return stats, nil
}

// Close closes the Redis client
func (c *RedisResultCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisResultCache) GetClient() *redis.Client {
	return c.client
}

func parseUsedMemoryMB(info string) float64 {
	for _, line := range strings.Split(info, "\r\n") {
		if rest, ok := strings.CutPrefix(line, "used_memory:"); ok {
			bytes, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
			if err != nil {
				return 0
			}
			return bytes / (1024 * 1024)
		}
	}
	return 0
}

// Ensure RedisResultCache implements ResultCache
var _ scamcheck.ResultCache = (*RedisResultCache)(nil)
