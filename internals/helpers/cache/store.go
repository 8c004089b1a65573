// file: internals/helpers/cache/store.go
package cache

import (
	"context"
	"time"

	"phqa_backend/internals/configs"
	"phqa_backend/internals/helpers/logger"
)

// Store adalah key-value cache minimal: blob dengan TTL + counter (versi).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	// Counter membaca nilai counter (0 bila belum ada).
	Counter(ctx context.Context, key string) (int64, error)
	// Incr menaikkan counter dan mengembalikan nilai barunya.
	Incr(ctx context.Context, key string) (int64, error)
	Close() error
}

// NewStoreFromEnv: Redis bila REDIS_ADDR diset dan bisa di-ping, selain itu memori proses.
func NewStoreFromEnv(ctx context.Context) Store {
	if configs.RedisAddr == "" {
		return NewMemoryStore()
	}
	rs, err := NewRedisStore(ctx, configs.RedisAddr)
	if err != nil {
		logger.Warn("redis tidak tersedia, fallback ke cache memori", "addr", configs.RedisAddr, "error", err)
		return NewMemoryStore()
	}
	logger.Info("✅ Redis cache connected", "addr", configs.RedisAddr)
	return rs
}
