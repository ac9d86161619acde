package redis

import (
	"context"
	"encoding/json"
	"time"

	userPort "cityscope/internal/ports/user"

	"github.com/go-redis/redis/v8"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const summaryKeyPrefix = "user:summary:"

// SummaryCacheRedis کش خلاصه‌ی هویت کاربران در Redis.
// A nil Client turns every call into a no-op that reports all ids as missing.
type SummaryCacheRedis struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

func NewSummaryCacheRedis(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SummaryCacheRedis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryCacheRedis{
		Client: client,
		TTL:    ttl,
		Logger: logger,
	}
}

func SummaryKey(id uuid.UUID) string {
	return summaryKeyPrefix + id.String()
}

// GetSummaries خواندن چند خلاصه با یک MGET؛ شناسه‌هایی که پیدا نشدند در missing برمی‌گردند
func (c *SummaryCacheRedis) GetSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]userPort.SummaryDTO, []uuid.UUID) {
	found := make(map[uuid.UUID]userPort.SummaryDTO, len(ids))
	if c.Client == nil || len(ids) == 0 {
		return found, ids
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = SummaryKey(id)
	}

	values, err := c.Client.MGet(ctx, keys...).Result()
	if err != nil {
		c.Logger.Warn("⚠️ summary cache read failed", zap.Error(err))
		return found, ids
	}

	var missing []uuid.UUID
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}
		var s userPort.SummaryDTO
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			missing = append(missing, ids[i])
			continue
		}
		found[ids[i]] = s
	}
	return found, missing
}

// SetSummaries writes all summaries in one pipeline.
func (c *SummaryCacheRedis) SetSummaries(ctx context.Context, summaries []userPort.SummaryDTO) {
	if c.Client == nil || len(summaries) == 0 {
		return
	}

	pipe := c.Client.Pipeline()
	for _, s := range summaries {
		id, err := uuid.FromString(s.ID)
		if err != nil {
			continue
		}
		payload, err := json.Marshal(s)
		if err != nil {
			continue
		}
		pipe.Set(ctx, SummaryKey(id), payload, c.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.Logger.Warn("⚠️ summary cache write failed", zap.Error(err))
	}
}

func (c *SummaryCacheRedis) Invalidate(ctx context.Context, id uuid.UUID) {
	if c.Client == nil {
		return
	}
	if err := c.Client.Del(ctx, SummaryKey(id)).Err(); err != nil {
		c.Logger.Warn("⚠️ summary cache invalidate failed", zap.String("userID", id.String()), zap.Error(err))
	}
}
