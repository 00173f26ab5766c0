package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/erazemk/zaloga/internal/model"
)

// keyPrefix namespaces the cache keys in a shared Redis.
const keyPrefix = "zaloga:ref:"

// Redis is a Cache backed by a Redis server, shared between instances.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps a Redis client as a reference cache.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, kind model.ReferenceKind) ([]model.ReferenceEntry, bool, error) {
	data, err := r.client.Get(ctx, keyPrefix+string(kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", kind, err)
	}

	var entries []model.ReferenceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("decoding cached %s: %w", kind, err)
	}
	return entries, true, nil
}

func (r *Redis) Set(ctx context.Context, kind model.ReferenceKind, entries []model.ReferenceEntry) error {
	if entries == nil {
		entries = []model.ReferenceEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", kind, err)
	}
	if err := r.client.Set(ctx, keyPrefix+string(kind), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", kind, err)
	}
	return nil
}
