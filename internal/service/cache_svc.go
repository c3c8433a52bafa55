package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
)

const (
	feedCacheTTL       = 30 * time.Second
	reputationCacheTTL = 5 * time.Minute
)

// CacheService provides a Redis cache-aside layer for feed and reputation
// reads. With no Redis configured every operation is a no-op.
type CacheService struct {
	rdb  *redis.Client
	hits prometheus.Counter
	miss prometheus.Counter
}

// SetCounters wires the hit/miss counters. Optional; nil counters are skipped.
func (c *CacheService) SetCounters(hits, misses prometheus.Counter) {
	c.hits = hits
	c.miss = misses
}

func (c *CacheService) recordHit() {
	if c.hits != nil {
		c.hits.Inc()
	}
}

func (c *CacheService) recordMiss() {
	if c.miss != nil {
		c.miss.Inc()
	}
}

// NewCacheService connects to Redis, or disables caching when the URL is
// empty or the connection fails.
func NewCacheService(redisURL string) *CacheService {
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

// Client returns the underlying Redis client for health checks. May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetFeed retrieves a cached feed page. Returns nil when absent or disabled.
func (c *CacheService) GetFeed(ctx context.Context, sort model.FeedSort, limit int) (*model.FeedResponse, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, feedKey(sort, limit)).Bytes()
	if err == redis.Nil {
		c.recordMiss()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var resp model.FeedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	c.recordHit()
	return &resp, nil
}

// SetFeed stores a feed page under a short TTL; feeds churn with every vote.
func (c *CacheService) SetFeed(ctx context.Context, sort model.FeedSort, limit int, resp *model.FeedResponse) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, feedKey(sort, limit), b, feedCacheTTL).Err()
}

// InvalidateFeeds drops all cached feed pages, called after hot-score writes.
func (c *CacheService) InvalidateFeeds(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	iter := c.rdb.Scan(ctx, 0, "feed:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// GetReputation retrieves a cached reputation view. Returns nil when absent.
func (c *CacheService) GetReputation(ctx context.Context, userID string) (*model.ReputationResponse, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, reputationKey(userID)).Bytes()
	if err == redis.Nil {
		c.recordMiss()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var resp model.ReputationResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	c.recordHit()
	return &resp, nil
}

// SetReputation stores a reputation view.
func (c *CacheService) SetReputation(ctx context.Context, userID string, resp *model.ReputationResponse) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, reputationKey(userID), b, reputationCacheTTL).Err()
}

// InvalidateReputation removes a user's cached reputation after recomputation.
func (c *CacheService) InvalidateReputation(ctx context.Context, userID string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, reputationKey(userID)).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func feedKey(sort model.FeedSort, limit int) string {
	return fmt.Sprintf("feed:%s:%d", sort, limit)
}

func reputationKey(userID string) string {
	return fmt.Sprintf("reputation:%s", userID)
}
