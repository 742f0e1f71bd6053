package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache TTLs. Playback info embeds a signed token valid for 2h, so its
// cache window must stay well below the token lifetime.
const (
	PlaybackCacheTTL = 5 * time.Minute
	ViewsCacheTTL    = 15 * time.Minute
)

// CacheService provides a Redis cache-aside layer for playback info
// and view counts. If Redis is unreachable the client stays nil and
// every operation becomes a no-op: the pipeline never depends on the
// cache being up.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService connects to Redis. An empty URL or failed connection
// yields a disabled cache, not an error.
func NewCacheService(redisURL string, log zerolog.Logger) *CacheService {
	if redisURL == "" {
		log.Info().Msg("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis: invalid URL, caching disabled")
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, caching disabled")
		return &CacheService{}
	}

	log.Info().Msg("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetPlayback retrieves cached playback info bytes. Returns nil when
// not cached or the cache is disabled.
func (c *CacheService) GetPlayback(ctx context.Context, videoID string) ([]byte, error) {
	if c == nil || c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, playbackKey(videoID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetPlayback stores playback info.
func (c *CacheService) SetPlayback(ctx context.Context, videoID string, data any) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, playbackKey(videoID), b, PlaybackCacheTTL).Err()
}

// InvalidatePlayback drops cached playback info (after status changes).
func (c *CacheService) InvalidatePlayback(ctx context.Context, videoID string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, playbackKey(videoID)).Err()
}

// GetViews retrieves a cached view count. The second return reports a
// cache hit; zero is a valid cached value.
func (c *CacheService) GetViews(ctx context.Context, uid string) (int, bool) {
	if c == nil || c.rdb == nil {
		return 0, false
	}
	val, err := c.rdb.Get(ctx, viewsKey(uid)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetViews stores a view count.
func (c *CacheService) SetViews(ctx context.Context, uid string, views int) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Set(ctx, viewsKey(uid), strconv.Itoa(views), ViewsCacheTTL).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func playbackKey(videoID string) string {
	return fmt.Sprintf("playback:%s", videoID)
}

func viewsKey(uid string) string {
	return fmt.Sprintf("views:%s", uid)
}
