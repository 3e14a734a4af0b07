package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InitRedis returns nil without error when no address is configured (development mode).
func InitRedis(ctx context.Context, addr, password string, db int, logger *zap.Logger) (*redis.Client, error) {
	if addr == "" {
		logger.Warn("⚠️ REDIS_URI not set. Rate limiting and background jobs are disabled.")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr, // เช่น localhost:6379
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect Redis: %w", err)
	}

	logger.Info("✅ Redis connected", zap.String("addr", addr))
	return client, nil
}
