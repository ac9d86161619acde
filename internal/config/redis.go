package config

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// OpenRedis اتصال به Redis را راه‌اندازی می‌کند.
// Redis is only used for caching and rate limiting, so when it is unreachable the
// service keeps running without it and nil is returned.
func OpenRedis(ctx context.Context, cfg *Config, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s, err := client.Ping(pingCtx).Result()
	if err != nil {
		logger.Warn("⚠️ Redis unavailable, continuing without cache and rate limiting", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = client.Close()
		return nil
	}
	logger.Info("Connected to Redis", zap.String("ping", s))
	return client
}
