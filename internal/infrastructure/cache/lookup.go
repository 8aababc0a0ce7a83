package cache

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/greenscan/backend/internal/domain"
)

// Load reads key into dest. Misses and backend failures both report false;
// failures are logged and never surface to the caller. A nil repo always misses.
func Load(ctx context.Context, repo domain.CacheRepository, key string, dest interface{}, logger *zap.Logger) bool {
	if repo == nil {
		return false
	}
	err := repo.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, domain.ErrCacheMiss) && logger != nil {
		logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

// Store writes value under key, logging instead of failing on errors
func Store(ctx context.Context, repo domain.CacheRepository, key string, value interface{}, ttl time.Duration, logger *zap.Logger) {
	if repo == nil {
		return
	}
	if err := repo.Set(ctx, key, value, ttl); err != nil && logger != nil {
		logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
