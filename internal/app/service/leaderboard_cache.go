package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"algopulse/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const leaderboardCacheKey = "algopulse:leaderboard"

// LeaderboardCache keeps the ranked board in redis for a short TTL so the
// hot public endpoint does not hit postgres on every request. Cache misses
// and redis outages fall through to the database.
type LeaderboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewLeaderboardCache(rdb *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{rdb: rdb, ttl: ttl}
}

func (c *LeaderboardCache) Get(ctx context.Context) ([]model.LeaderboardEntry, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, leaderboardCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("WARN: leaderboard cache read failed: %v", err)
		}
		return nil, false
	}
	var entries []model.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Printf("WARN: leaderboard cache corrupt, dropping: %v", err)
		c.Invalidate(ctx)
		return nil, false
	}
	return entries, true
}

func (c *LeaderboardCache) Set(ctx context.Context, entries []model.LeaderboardEntry) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, leaderboardCacheKey, raw, c.ttl).Err(); err != nil {
		log.Printf("WARN: leaderboard cache write failed: %v", err)
	}
}

// Invalidate drops the cached board; called after any write that changes
// points or streaks.
func (c *LeaderboardCache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, leaderboardCacheKey).Err(); err != nil {
		log.Printf("WARN: leaderboard cache invalidation failed: %v", err)
	}
}
