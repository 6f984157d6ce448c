package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	catalogCacheTTL        = 5 * time.Minute
	catalogCacheVersionKey = "catalog:version"
)

// CatalogCache is a versioned Redis cache for catalog list responses. Writes
// to the catalog bump the version key, which orphans every older entry instead
// of scanning for keys to delete. A nil *CatalogCache is valid and disables
// caching, so Redis stays optional.
type CatalogCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCatalogCache creates a CatalogCache. Returns nil when client is nil.
func NewCatalogCache(client *redis.Client, logger *zap.Logger) *CatalogCache {
	if client == nil {
		return nil
	}
	return &CatalogCache{client: client, logger: logger}
}

func (cc *CatalogCache) version(ctx context.Context) string {
	v, err := cc.client.Get(ctx, catalogCacheVersionKey).Result()
	if err != nil {
		return "0"
	}
	return v
}

func (cc *CatalogCache) key(ctx context.Context, query string) string {
	return fmt.Sprintf("catalog:v%s:%s", cc.version(ctx), query)
}

// Get returns the cached payload for the query, or false on a miss.
func (cc *CatalogCache) Get(ctx context.Context, query string) ([]byte, bool) {
	if cc == nil {
		return nil, false
	}
	payload, err := cc.client.Get(ctx, cc.key(ctx, query)).Bytes()
	if err != nil {
		if err != redis.Nil {
			cc.logger.Warn("Catalog cache read failed", zap.Error(err))
		}
		return nil, false
	}
	return payload, true
}

// Set stores the payload for the query under the current version.
func (cc *CatalogCache) Set(ctx context.Context, query string, payload []byte) {
	if cc == nil {
		return
	}
	if err := cc.client.Set(ctx, cc.key(ctx, query), payload, catalogCacheTTL).Err(); err != nil {
		cc.logger.Warn("Catalog cache write failed", zap.Error(err))
	}
}

// Invalidate bumps the version key, making all cached list entries stale.
func (cc *CatalogCache) Invalidate(ctx context.Context) {
	if cc == nil {
		return
	}
	if err := cc.client.Incr(ctx, catalogCacheVersionKey).Err(); err != nil {
		cc.logger.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}
