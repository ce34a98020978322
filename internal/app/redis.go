package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spesasmart/pricing/config"
	"github.com/spesasmart/pricing/internal/cache"
)

const redisPingTimeout = 3 * time.Second

// InitCache connects to Redis and wraps it in the best-price cache.
// It returns (nil, nil) when REDIS_ADDR is empty.
func InitCache(cfg config.Config) (*cache.Cache, error) {
	if !cfg.Redis.Enabled() {
		return nil, nil
	}

	client := redisClientCtor(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	c := cache.New(client, cache.DefaultPrefix, cfg.Redis.TTL)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Redis.Addr, err)
	}
	return c, nil
}

// redisClientCtor is an indirection for unit testing.
var redisClientCtor = redis.NewClient

// cacheOpener is an indirection used by InitializeApp.
var cacheOpener = InitCache
