package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"influencer-insights-go/internal/analyzer"
)

// ResultCache memoizes analysis results by a content hash of the raw media
// bytes. The engine is pure, so identical bytes always map to an identical
// result and cached entries never go stale, only cold.
type ResultCache interface {
	Get(ctx context.Context, media []byte) (*analyzer.AnalysisResult, bool, error)
	Put(ctx context.Context, media []byte, result analyzer.AnalysisResult) error
	Close() error
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// Options configures the redis-backed cache.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// NewRedisCache constructs a redis-backed result cache and verifies
// connectivity.
func NewRedisCache(opts Options) (ResultCache, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "analysis:sha256:"
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &redisCache{client: client, ttl: ttl, prefix: prefix}, nil
}

// ContentKey returns the cache key for a media payload.
func ContentKey(media []byte) string {
	sum := sha256.Sum256(media)
	return hex.EncodeToString(sum[:])
}

func (c *redisCache) key(media []byte) string {
	return c.prefix + ContentKey(media)
}

func (c *redisCache) Get(ctx context.Context, media []byte) (*analyzer.AnalysisResult, bool, error) {
	raw, err := c.client.Get(ctx, c.key(media)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	var result analyzer.AnalysisResult
	if err := sonic.Unmarshal(raw, &result); err != nil {
		// A corrupt entry is treated as a miss; the caller will overwrite it.
		return nil, false, nil
	}
	return &result, true, nil
}

func (c *redisCache) Put(ctx context.Context, media []byte, result analyzer.AnalysisResult) error {
	data, err := sonic.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(media), data, c.ttl).Err()
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
