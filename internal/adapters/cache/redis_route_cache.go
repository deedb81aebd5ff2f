package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"concrete-dispatch-service/internal/domain"
	"concrete-dispatch-service/internal/ports"
)

// RedisRouteCache keeps route results in Redis, one key per rounded
// coordinate pair. A plain overwrite on Put gives most-recent-wins
// semantics without any ordering metadata.
type RedisRouteCache struct {
	Client *redis.Client
	// TTL of zero keeps entries forever; road networks change slowly.
	TTL time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{Client: client, TTL: ttl}
}

type redisRouteEntry struct {
	Minutes float64 `json:"minutes"`
	Km      float64 `json:"km"`
}

func routeKey(from, to domain.Coordinates) string {
	return fmt.Sprintf("route:%.5f,%.5f:%.5f,%.5f", from.Lat, from.Lng, to.Lat, to.Lng)
}

func (c *RedisRouteCache) Get(ctx context.Context, from, to domain.Coordinates) (ports.RouteResult, bool, error) {
	raw, err := c.Client.Get(ctx, routeKey(from, to)).Result()
	if errors.Is(err, redis.Nil) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: redis get: %w", err)
	}

	var entry redisRouteEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: decode entry: %w", err)
	}

	return ports.RouteResult{Minutes: entry.Minutes, Km: entry.Km}, true, nil
}

func (c *RedisRouteCache) Put(ctx context.Context, from, to domain.Coordinates, res ports.RouteResult) error {
	raw, err := json.Marshal(redisRouteEntry{Minutes: res.Minutes, Km: res.Km})
	if err != nil {
		return fmt.Errorf("insert route cache: encode entry: %w", err)
	}

	if err := c.Client.Set(ctx, routeKey(from, to), raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("insert route cache: redis set: %w", err)
	}

	return nil
}
