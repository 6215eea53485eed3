// Package cache keeps the per-owner "completed today" counter in Redis so
// the badge on every row update does not recount in the store. The counter
// is derived data: a miss or an unreachable Redis just falls through to the
// repository.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/mori5600/yarukoto/internal/config"
	"github.com/mori5600/yarukoto/pkg/logger"
)

const completedTodayKeyPrefix = "tasks:completed_today:"

// Connect builds a Redis client from REDIS_URL. Returns nil when the URL is
// invalid or the server is unreachable; callers treat nil as "no cache".
func Connect(ctx context.Context) *redis.Client {
	cfg := config.Get()
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error(ctx, "Invalid REDIS_URL", "error", err, "url", cfg.RedisURL)
		return nil
	}
	opts.PoolSize = cfg.RedisPoolSize
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn(ctx, "Redis ping failed, running without cache", "error", err)
		return nil
	}
	logger.Info(ctx, "Redis client initialized", "pool_size", cfg.RedisPoolSize)
	return client
}

// FetchFunc recomputes the counter from the store on a miss.
type FetchFunc func(ctx context.Context, ownerID string) (int, error)

// CompletedTodayCache serves the completed-today counter cache-first.
type CompletedTodayCache struct {
	client *redis.Client // nil disables caching
	ttl    time.Duration
	fetch  FetchFunc
	group  singleflight.Group
}

func NewCompletedTodayCache(client *redis.Client, ttl time.Duration, fetch FetchFunc) *CompletedTodayCache {
	return &CompletedTodayCache{client: client, ttl: ttl, fetch: fetch}
}

// CompletedToday returns the owner's counter, reading Redis first and
// collapsing concurrent recomputes of the same owner on a miss.
func (c *CompletedTodayCache) CompletedToday(ctx context.Context, ownerID string) (int, error) {
	if c.client == nil {
		return c.fetch(ctx, ownerID)
	}
	key := completedTodayKeyPrefix + ownerID
	if v, err := c.client.Get(ctx, key).Result(); err == nil {
		if n, perr := strconv.Atoi(v); perr == nil {
			return n, nil
		}
	} else if err != redis.Nil {
		logger.Debug(ctx, "Redis get completed-today failed", "error", err)
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		n, err := c.fetch(ctx, ownerID)
		if err != nil {
			return 0, err
		}
		if serr := c.client.Set(ctx, key, strconv.Itoa(n), c.ttl).Err(); serr != nil {
			logger.Debug(ctx, "Redis set completed-today failed", "error", serr)
		}
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// InvalidateCompletedToday drops the owner's cached counter so the next read
// recomputes from the store.
func (c *CompletedTodayCache) InvalidateCompletedToday(ctx context.Context, ownerID string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, completedTodayKeyPrefix+ownerID).Err(); err != nil {
		logger.Debug(ctx, "Redis invalidate completed-today failed", "error", err)
	}
}
