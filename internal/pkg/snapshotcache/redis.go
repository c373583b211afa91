package snapshotcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/excursio/excursio-client/internal/domain/inventory"
)

const redisKeyPrefix = "excursio:snapshot:"

// Redis is a Redis-backed snapshot cache. Cache failures degrade to misses
// rather than failing the booking flow.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis snapshot cache.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, excursionID uuid.UUID) (inventory.Inventory, bool) {
	data, err := r.client.Get(ctx, redisKeyPrefix+excursionID.String()).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("excursion_id", excursionID.String()).Msg("snapshot cache read failed")
		}
		return nil, false
	}

	var inv inventory.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		log.Warn().Err(err).Str("excursion_id", excursionID.String()).Msg("snapshot cache entry corrupt, dropping")
		r.Invalidate(ctx, excursionID)
		return nil, false
	}
	return inv, true
}

func (r *Redis) Set(ctx context.Context, excursionID uuid.UUID, inv inventory.Inventory) {
	data, err := json.Marshal(inv)
	if err != nil {
		log.Warn().Err(err).Str("excursion_id", excursionID.String()).Msg("snapshot cache encode failed")
		return
	}
	if err := r.client.Set(ctx, redisKeyPrefix+excursionID.String(), data, r.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("excursion_id", excursionID.String()).Msg("snapshot cache write failed")
	}
}

func (r *Redis) Invalidate(ctx context.Context, excursionID uuid.UUID) {
	if err := r.client.Del(ctx, redisKeyPrefix+excursionID.String()).Err(); err != nil {
		log.Warn().Err(err).Str("excursion_id", excursionID.String()).Msg("snapshot cache invalidate failed")
	}
}
