package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	productListCachePrefix = "products:v:"
	cacheVersionKey        = "products:version"
)

// CacheManager caches the hot product listing in Redis. Invalidation is
// a version bump, so stale keys just expire.
type CacheManager struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCacheManager(redisClient *redis.Client, logger *zap.Logger) *CacheManager {
	return &CacheManager{
		redis:  redisClient,
		ttl:    DefaultCacheTTL,
		logger: logger,
	}
}

// GetProductList retrieves a cached product list page.
func (cm *CacheManager) GetProductList(ctx context.Context, key string) (map[string]interface{}, bool) {
	if cm.redis == nil {
		return nil, false
	}
	version, err := cm.getCacheVersion(ctx)
	if err != nil {
		return nil, false
	}

	cachedData, err := cm.redis.Get(ctx, cm.versionedKey(version, key)).Result()
	if err != nil {
		return nil, false
	}

	var response map[string]interface{}
	if err := json.Unmarshal([]byte(cachedData), &response); err != nil {
		cm.logger.Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return response, true
}

// SetProductListAsync caches a product list page off the request path.
func (cm *CacheManager) SetProductListAsync(key string, response map[string]interface{}) {
	if cm.redis == nil {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.getCacheVersion(bgCtx)
		if err != nil {
			return
		}
		jsonBytes, err := json.Marshal(response)
		if err != nil {
			cm.logger.Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}
		if err := cm.redis.Set(bgCtx, cm.versionedKey(version, key), jsonBytes, cm.ttl).Err(); err != nil {
			cm.logger.Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// Invalidate invalidates all product list caches by bumping the version.
func (cm *CacheManager) Invalidate(ctx context.Context) error {
	if cm.redis == nil {
		return nil
	}
	newVersion, err := cm.redis.Incr(ctx, cacheVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	cm.logger.Info("Product cache invalidated", zap.Int64("new_version", newVersion))
	return nil
}

func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	ver, err := cm.redis.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := cm.redis.Set(ctx, cacheVersionKey, 1, 0).Err(); err == nil {
			return 1, nil
		}
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

func (cm *CacheManager) versionedKey(version int64, key string) string {
	return fmt.Sprintf("%s%d:%s", productListCachePrefix, version, key)
}
