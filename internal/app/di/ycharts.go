// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	quotesadapters "ycharts_backend/internal/feature/quotes/adapters"
	"ycharts_backend/internal/platform/cache"
	infrahttp "ycharts_backend/internal/platform/http"
	"ycharts_backend/pkg/ycharts"
)

// ClientOptions returns the ycharts client options shared by every command:
// the tuned HTTP client and the default structured logger.
func ClientOptions(cfg ycharts.Config) []ycharts.Option {
	return []ycharts.Option{
		ycharts.WithHTTPClient(infrahttp.NewHTTPClient(cfg.Timeout)),
		ycharts.WithLogger(slog.Default()),
	}
}

// NewFetcher creates the quotes Fetcher backed by the YCharts API.
// If rdb is nil, the cache decorator passes every query through.
func NewFetcher(cfg ycharts.Config, rdb *redis.Client, ttl time.Duration) *cache.CachingFetcher {
	inner := quotesadapters.NewYChartsFetcher(cfg, ClientOptions(cfg)...)
	return cache.NewCachingFetcher(rdb, ttl, inner, "ycharts")
}
