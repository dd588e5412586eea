package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ProfileCache caches profile reads in Redis with a short TTL. All methods
// are nil-safe so the service degrades to direct repository reads when
// Redis is not configured.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewProfileCache wraps a redis client. A nil client disables caching.
func NewProfileCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ProfileCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ProfileCache{client: client, ttl: ttl, logger: logger}
}

// Get loads a cached value into dest, reporting whether it was present.
func (p *ProfileCache) Get(ctx context.Context, key string, dest any) bool {
	if p == nil || p.client == nil {
		return false
	}
	raw, err := p.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		p.logger.Warn("discarding corrupt cache entry", zap.String("key", key), zap.Error(err))
		_ = p.client.Del(ctx, key).Err()
		return false
	}
	return true
}

// Set stores a value under key. Failures are logged, never propagated.
func (p *ProfileCache) Set(ctx context.Context, key string, val any) {
	if p == nil || p.client == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := p.client.Set(ctx, key, raw, p.ttl).Err(); err != nil {
		p.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops a cached entry after a write.
func (p *ProfileCache) Invalidate(ctx context.Context, key string) {
	if p == nil || p.client == nil {
		return
	}
	if err := p.client.Del(ctx, key).Err(); err != nil {
		p.logger.Warn("cache invalidate failed", zap.String("key", key), zap.Error(err))
	}
}
