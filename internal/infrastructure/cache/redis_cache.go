package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"conferencehall/internal/errs"
	"conferencehall/internal/ports"
)

const redisKeyPrefix = "conferencehall:"

type RedisCache struct {
	client redis.UniversalClient
}

var _ ports.Cache = (*RedisCache)(nil)

func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return "", false, err
	}

	value, err := c.client.Get(ctx, redisKeyPrefix+trimmedKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errs.Wrap(err, "redis get")
	}
	return value, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return err
	}

	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, redisKeyPrefix+trimmedKey, value, ttl).Err(); err != nil {
		return errs.Wrap(err, "redis set")
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return err
	}

	if err := c.client.Del(ctx, redisKeyPrefix+trimmedKey).Err(); err != nil {
		return errs.Wrap(err, "redis del")
	}
	return nil
}

// NoopCache never stores anything; every Get misses.
type NoopCache struct{}

var _ ports.Cache = NoopCache{}

func (NoopCache) Get(ctx context.Context, key string) (string, bool, error) {
	_, err := checkKey(ctx, key)
	return "", false, err
}

func (NoopCache) Set(ctx context.Context, key string, _ string, _ time.Duration) error {
	_, err := checkKey(ctx, key)
	return err
}

func (NoopCache) Delete(ctx context.Context, key string) error {
	_, err := checkKey(ctx, key)
	return err
}
