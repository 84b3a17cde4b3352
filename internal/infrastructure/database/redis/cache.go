package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molsdg/pkg/errors"
	"github.com/turtacn/molsdg/pkg/types/layout"
)

var (
	ErrCacheMiss           = errors.New(errors.ErrCodeNotFound, "cache miss")
	ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "serialization failed")
)

// LayoutCache stores layout results as JSON under a key prefix. Concurrent
// misses on the same key share one computation.
type LayoutCache struct {
	client       *Client
	logger       logging.Logger
	prefix       string
	ttl          time.Duration
	jitter       float64
	singleflight singleflight.Group
}

type CacheOption func(*LayoutCache)

func WithPrefix(prefix string) CacheOption {
	return func(c *LayoutCache) { c.prefix = prefix }
}

func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *LayoutCache) { c.ttl = ttl }
}

// WithTTLJitter spreads expiry by ±fraction of the TTL. 0 disables it.
func WithTTLJitter(fraction float64) CacheOption {
	return func(c *LayoutCache) { c.jitter = fraction }
}

func NewLayoutCache(client *Client, log logging.Logger, opts ...CacheOption) *LayoutCache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &LayoutCache{
		client: client,
		logger: log.Named("layout_cache"),
		prefix: "molsdg:",
		ttl:    24 * time.Hour,
		jitter: 0.1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *LayoutCache) fullKey(key string) string {
	return c.prefix + key
}

func (c *LayoutCache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl == 0 || c.jitter == 0 {
		return ttl
	}
	jitter := float64(ttl) * c.jitter * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

// Get returns the cached result for key or ErrCacheMiss.
func (c *LayoutCache) Get(ctx context.Context, key string) (*layout.Result, error) {
	data, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "failed to get from cache")
	}
	var res layout.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, ErrSerializationFailed.WithCause(err)
	}
	return &res, nil
}

// Set stores res under key with the default TTL.
func (c *LayoutCache) Set(ctx context.Context, key string, res *layout.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	if err := c.client.Set(ctx, c.fullKey(key), data, c.jitterTTL(c.ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to write cache")
	}
	return nil
}

// Delete removes keys.
func (c *LayoutCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	fullKeys := make([]string, len(keys))
	for i, k := range keys {
		fullKeys[i] = c.fullKey(k)
	}
	return c.client.Del(ctx, fullKeys...).Err()
}

// GetOrCompute returns the cached result or runs compute once per key
// across concurrent callers and caches its result. A read or write failure
// of the cache itself is logged and does not fail the call.
func (c *LayoutCache) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (*layout.Result, error)) (*layout.Result, bool, error) {
	res, err := c.Get(ctx, key)
	if err == nil {
		return res, true, nil
	}
	if err != ErrCacheMiss {
		c.logger.Warn("cache read failed, computing layout", logging.String("key", key), logging.Err(err))
	}

	val, err, _ := c.singleflight.Do(key, func() (interface{}, error) {
		v, loadErr := compute(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if setErr := c.Set(ctx, key, v); setErr != nil {
			c.logger.Warn("Failed to set cache in GetOrCompute", logging.String("key", key), logging.Err(setErr))
		}
		return v, nil
	})
	if err != nil {
		return nil, false, err
	}

	// Callers sharing a flight each get their own copy.
	return val.(*layout.Result).Clone(), false, nil
}

// DeleteByPrefix removes every key under prefix and returns the count.
func (c *LayoutCache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var deleted int64
	var cursor uint64
	match := c.fullKey(prefix) + "*"
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, err
			}
			deleted += int64(len(keys))
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return deleted, nil
}

func (c *LayoutCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}

//Personal.AI order the ending
