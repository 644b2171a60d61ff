package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"sentinela/internal/platform/redis"
)

// RedisCache caches successful classifications so repeated reports of the
// same description (bulk imports, retried submissions) skip the provider.
// Every cache error is treated as a miss; the gateway must keep working
// with Redis down.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCache) GetClassification(ctx context.Context, key string) (*Classification, bool) {
	raw, err := c.client.Get(ctx, c.redisKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.Debug("classification cache get failed", "error", err)
		}
		return nil, false
	}
	var out Classification
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return &out, true
}

func (c *RedisCache) SetClassification(ctx context.Context, key string, classification Classification) {
	raw, err := json.Marshal(classification)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.redisKey(key), raw, c.ttl).Err(); err != nil {
		c.logger.Debug("classification cache set failed", "error", err)
	}
}

func (c *RedisCache) redisKey(key string) string {
	return "sentinela:classification:" + key
}
