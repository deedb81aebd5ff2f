package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"concrete-dispatch-service/internal/domain"
	"concrete-dispatch-service/internal/ports"
)

func newRedisCache(t *testing.T) (*RedisRouteCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRouteCache(client, 0), mr
}

func TestRedisRouteCacheRoundTrip(t *testing.T) {
	c, _ := newRedisCache(t)
	ctx := context.Background()

	from := domain.Coordinates{Lat: 50.73600, Lng: -3.53500}
	to := domain.Coordinates{Lat: 50.80000, Lng: -3.60000}

	if _, ok, err := c.Get(ctx, from, to); err != nil || ok {
		t.Fatalf("empty cache: ok=%v err=%v, want miss", ok, err)
	}

	if err := c.Put(ctx, from, to, ports.RouteResult{Minutes: 42.5, Km: 19.3}); err != nil {
		t.Fatalf("put: %v", err)
	}

	res, ok, err := c.Get(ctx, from, to)
	if err != nil || !ok {
		t.Fatalf("get after put: ok=%v err=%v", ok, err)
	}
	if res.Minutes != 42.5 || res.Km != 19.3 {
		t.Fatalf("got %+v, want raw 42.5 min / 19.3 km", res)
	}

	// The reverse direction is a distinct key.
	if _, ok, _ := c.Get(ctx, to, from); ok {
		t.Fatal("reverse leg unexpectedly cached")
	}
}

func TestRedisRouteCacheOverwrite(t *testing.T) {
	c, _ := newRedisCache(t)
	ctx := context.Background()

	from := domain.Coordinates{Lat: 50.73600, Lng: -3.53500}
	to := domain.Coordinates{Lat: 50.80000, Lng: -3.60000}

	if err := c.Put(ctx, from, to, ports.RouteResult{Minutes: 40, Km: 20}); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := c.Put(ctx, from, to, ports.RouteResult{Minutes: 35, Km: 18}); err != nil {
		t.Fatalf("second put: %v", err)
	}

	res, ok, err := c.Get(ctx, from, to)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if res.Minutes != 35 {
		t.Fatalf("got %.1f minutes, want the most recent write", res.Minutes)
	}
}

func TestRedisRouteCacheTTL(t *testing.T) {
	mrCache, mr := newRedisCache(t)
	mrCache.TTL = time.Minute
	ctx := context.Background()

	from := domain.Coordinates{Lat: 50.73600, Lng: -3.53500}
	to := domain.Coordinates{Lat: 50.80000, Lng: -3.60000}

	if err := mrCache.Put(ctx, from, to, ports.RouteResult{Minutes: 40, Km: 20}); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, _ := mrCache.Get(ctx, from, to); ok {
		t.Fatal("entry survived its TTL")
	}
}
