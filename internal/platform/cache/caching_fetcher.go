// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"ycharts_backend/internal/feature/quotes/domain/entity"
	"ycharts_backend/internal/feature/quotes/usecase"
	"ycharts_backend/pkg/ycharts"
)

// DefaultTTL is used when no positive TTL is configured.
const DefaultTTL = 5 * time.Minute

// CachingFetcher decorates a quotes Fetcher with Redis caching.
// Only successful documents are stored; errors always reach the caller uncached.
type CachingFetcher struct {
	inner     usecase.Fetcher
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.Fetcher = (*CachingFetcher)(nil)

// NewCachingFetcher decorates a Fetcher with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "ycharts".
func NewCachingFetcher(rdb *redis.Client, ttl time.Duration, inner usecase.Fetcher, namespace string) *CachingFetcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "ycharts"
	}
	return &CachingFetcher{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Fetch returns the cached document for q, or asks the inner Fetcher and stores the result.
func (c *CachingFetcher) Fetch(ctx context.Context, q entity.Query) (ycharts.Document, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Fetch(ctx, q)
	}

	key := c.cacheKey(q)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		if doc, err := ycharts.DecodeDocument(bytes.NewReader(b)); err == nil {
			return doc, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the API
	doc, err := c.inner.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort). Error envelopes returned in lenient mode are not stored.
	if doc.Meta().Status != "error" {
		if b, err := json.Marshal(doc); err == nil {
			if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
				slog.Warn("cache set failed", "key", key, "error", err)
			}
		}
	}

	return doc, nil
}

// InvalidateResource removes every cached document of one resource.
func (c *CachingFetcher) InvalidateResource(ctx context.Context, resource string) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.cacheKeyPrefix(resource)+"*")
}

// cacheKey generates a cache key for a specific query.
func (c *CachingFetcher) cacheKey(q entity.Query) string {
	return fmt.Sprintf("%s%s:%s:%s:%s",
		c.cacheKeyPrefix(q.Resource),
		safe(q.Endpoint),
		safe(strings.Join(q.Symbols, ",")),
		safe(strings.Join(q.Codes, ",")),
		safe(encodeParams(q.Params)),
	)
}

// cacheKeyPrefix generates a prefix shared by all entries of a resource.
func (c *CachingFetcher) cacheKeyPrefix(resource string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(resource))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingFetcher) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
