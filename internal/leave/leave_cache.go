package leave

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"go-leave/internal/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// AllRequestsCacheKey prefixes the cached listing; the current generation
	// is appended.
	AllRequestsCacheKey = "leave:cache:requests:all"
	// CacheGenerationKey is bumped on every write. A listing loaded under an
	// older generation can still be stored but is never read again.
	CacheGenerationKey = "leave:cache:requests:gen"
)

func allRequestsKey(gen int64) string {
	return AllRequestsCacheKey + ":" + strconv.FormatInt(gen, 10)
}

// listCache memoises the full listing in Redis. Concurrent misses share one
// storage call. A nil client disables caching but keeps the singleflight.
type listCache struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	sf     singleflight.Group
	logger *zap.Logger
}

func newListCache(rdb redis.Cmdable, ttl time.Duration, logger *zap.Logger) *listCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &listCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *listCache) get(ctx context.Context, load func(context.Context) ([]model.LeaveRequest, error)) ([]model.LeaveRequest, error) {
	if c.rdb == nil {
		return c.load(ctx, AllRequestsCacheKey, load)
	}

	gen, err := c.rdb.Get(ctx, CacheGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("read leave request cache generation failed", zap.Error(err))
		return c.load(ctx, AllRequestsCacheKey, load)
	}

	key := allRequestsKey(gen)
	if cached, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var reqs []model.LeaveRequest
		if json.Unmarshal(cached, &reqs) == nil {
			return reqs, nil
		}
	}

	return c.load(ctx, key, func(ctx context.Context) ([]model.LeaveRequest, error) {
		reqs, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(reqs); err == nil {
			if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
				c.logger.Warn("cache leave requests failed", zap.Error(err))
			}
		}
		return reqs, nil
	})
}

func (c *listCache) load(ctx context.Context, key string, load func(context.Context) ([]model.LeaveRequest, error)) ([]model.LeaveRequest, error) {
	v, err, _ := c.sf.Do(key, func() (any, error) {
		return load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.LeaveRequest), nil
}

func (c *listCache) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, CacheGenerationKey).Err(); err != nil {
		c.logger.Warn("invalidate leave request cache failed", zap.String("key", CacheGenerationKey), zap.Error(err))
	}
}
