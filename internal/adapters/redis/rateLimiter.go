package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimiterRedis fixed-window counter per (resource, id) using INCR + EXPIRE.
type RateLimiterRedis struct {
	Client *redis.Client
	Limit  int
	Window time.Duration
}

func NewRateLimiterRedis(client *redis.Client, limit int, window time.Duration) *RateLimiterRedis {
	return &RateLimiterRedis{
		Client: client,
		Limit:  limit,
		Window: window,
	}
}

func RateLimitKey(resource, id string) string {
	return fmt.Sprintf("rl:%s:%s", resource, id)
}

// Allow گزارش می‌دهد که درخواست بعدی در پنجره‌ی فعلی مجاز است یا نه
func (l *RateLimiterRedis) Allow(ctx context.Context, resource, id string) (bool, error) {
	if l.Client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	if l.Limit <= 0 {
		return true, nil
	}

	key := RateLimitKey(resource, id)
	count, err := l.Client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.Client.Expire(ctx, key, l.Window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(l.Limit), nil
}
