package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tippspiel/tippspiel-api/internal/domain"
)

// StandingsCache keeps computed leaderboards in redis, keyed by scope
// (overall or one round) plus the requested user set. Every failure
// degrades to a cache miss; standings are always recomputable from the
// database.
type StandingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStandingsCache(client *redis.Client, ttl time.Duration) *StandingsCache {
	return &StandingsCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *StandingsCache) Get(ctx context.Context, key string) ([]domain.StandingEntry, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			zap.L().Warn("standings cache get failed", zap.String("key", key), zap.Error(err))
		}

		return nil, false
	}

	var entries []domain.StandingEntry
	if err = json.Unmarshal(payload, &entries); err != nil {
		zap.L().Warn("standings cache payload corrupt", zap.String("key", key), zap.Error(err))

		return nil, false
	}

	return entries, true
}

func (c *StandingsCache) Set(ctx context.Context, key string, entries []domain.StandingEntry) {
	payload, err := json.Marshal(entries)
	if err != nil {
		zap.L().Warn("standings cache marshal failed", zap.String("key", key), zap.Error(err))

		return
	}

	if err = c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		zap.L().Warn("standings cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateRound drops every cached board the round's data feeds: its own
// round-scoped keys and all overall keys.
func (c *StandingsCache) InvalidateRound(ctx context.Context, roundID uint) {
	c.deleteByPattern(ctx, fmt.Sprintf("standings:round:%d:*", roundID))
	c.deleteByPattern(ctx, "standings:all:*")
}

func (c *StandingsCache) deleteByPattern(ctx context.Context, pattern string) {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			zap.L().Warn("standings cache delete failed", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		zap.L().Warn("standings cache scan failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
