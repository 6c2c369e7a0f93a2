package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tiagostutz/demo-warehouse-software/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const availabilityCacheKey = "availability:products"

// AvailabilityCache keeps the computed availability-for-all snapshot in Redis.
// Every writer of article stock invalidates it; reads are best effort — a
// cache failure never fails the request. All methods are nil-receiver safe so
// services can run without Redis (unit tests, the ingest CLI).
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration) *AvailabilityCache {
	if rdb == nil {
		return nil
	}
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

func (c *AvailabilityCache) Get(ctx context.Context) ([]dto.ProductAvailabilityResponse, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, availabilityCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var cached []dto.ProductAvailabilityResponse
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false
	}
	return cached, true
}

func (c *AvailabilityCache) Set(ctx context.Context, items []dto.ProductAvailabilityResponse) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, availabilityCacheKey, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to populate availability cache")
	}
}

// Invalidate drops the snapshot after any stock or catalog write.
func (c *AvailabilityCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, availabilityCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate availability cache")
	}
}
