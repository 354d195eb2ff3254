package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"BuySignal/internal/model"
)

// ErrCacheMiss is returned by a Cache when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores encoded price histories.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache implements Cache on a Redis server.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to addr and pings it.
func NewRedisCache(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisCache{client: client}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Close closes the underlying client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// CachedFetcher wraps a Fetcher with a read-through cache. Cache failures
// fall back to the wrapped fetcher; empty results are never cached.
type CachedFetcher struct {
	next  Fetcher
	cache Cache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewCachedFetcher creates a CachedFetcher.
func NewCachedFetcher(next Fetcher, cache Cache, ttl time.Duration, log zerolog.Logger) *CachedFetcher {
	return &CachedFetcher{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log.With().Str("component", "price_cache").Logger(),
	}
}

func (c *CachedFetcher) Name() string { return c.next.Name() + "+cache" }

func cacheKey(source, symbol, rng string) string {
	return fmt.Sprintf("prices:%s:%s:%s", source, symbol, rng)
}

func (c *CachedFetcher) FetchDailyPrices(ctx context.Context, symbol, rng string) ([]model.PricePoint, error) {
	key := cacheKey(c.next.Name(), symbol, rng)

	if b, err := c.cache.Get(ctx, key); err == nil {
		var points []model.PricePoint
		if err := msgpack.Unmarshal(b, &points); err == nil && len(points) > 0 {
			// msgpack decodes timestamps in the local zone; the live fetchers return UTC.
			for i := range points {
				points[i].Time = points[i].Time.UTC()
			}
			c.log.Debug().Str("key", key).Int("points", len(points)).Msg("cache hit")
			return points, nil
		}
		c.log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	} else if !errors.Is(err, ErrCacheMiss) {
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	points, err := c.next.FetchDailyPrices(ctx, symbol, rng)
	if err != nil || len(points) == 0 {
		return points, err
	}

	b, err := msgpack.Marshal(points)
	if err != nil {
		c.log.Warn().Err(err).Msg("encode cache entry")
		return points, nil
	}
	if err := c.cache.Set(ctx, key, b, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return points, nil
}
