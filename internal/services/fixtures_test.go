package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"concrete-dispatch-service/internal/domain"
	"concrete-dispatch-service/internal/ports"
)

// Shared fixtures for the services tests. Coordinates are spread far enough
// apart that 5-decimal rounding keeps them distinct.
var (
	quarry = domain.Coordinates{Lat: 50.73600, Lng: -3.53500}
	siteA  = domain.Coordinates{Lat: 50.80000, Lng: -3.60000}
	siteB  = domain.Coordinates{Lat: 50.90000, Lng: -3.70000}
	siteC  = domain.Coordinates{Lat: 50.75000, Lng: -3.40000}
)

func testSettings() domain.SystemSettings {
	return domain.SystemSettings{
		Quarry:         quarry,
		BufferMinutes:  0,
		MaxSpeedKmh:    0,
		WashMinutes:    0,
		LoadingMinutes: 15,
		MaxLoadM3:      8,
	}
}

func testDay() time.Time {
	return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
}

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 1, hour, min, 0, 0, time.UTC)
}

func delivery(id string, site domain.Coordinates, due time.Time, qty float64, mix string) *domain.Booking {
	s := site
	return &domain.Booking{
		ID:            id,
		Due:           due,
		ProjectName:   "Project " + id,
		Quantity:      qty,
		Delivered:     true,
		OnSiteMinutes: 30,
		MixName:       mix,
		ProjectCoords: &s,
	}
}

func collection(id string, qty float64) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		Due:         at(8, 0),
		ProjectName: "Project " + id,
		Quantity:    qty,
		Delivered:   false,
		MixName:     "RTC25",
	}
}

// memCache is an in-memory ports.RouteCache that counts operations. The
// mutex matters: the trip leg fan-out hits the cache from several
// goroutines.
type memCache struct {
	mu   sync.Mutex
	m    map[string]ports.RouteResult
	gets int
	puts int
}

func newMemCache() *memCache { return &memCache{m: make(map[string]ports.RouteResult)} }

func cacheKey(from, to domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f", from.Lat, from.Lng, to.Lat, to.Lng)
}

func (c *memCache) Get(ctx context.Context, from, to domain.Coordinates) (ports.RouteResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	res, ok := c.m[cacheKey(from, to)]
	return res, ok, nil
}

func (c *memCache) Put(ctx context.Context, from, to domain.Coordinates, res ports.RouteResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	c.m[cacheKey(from, to)] = res
	return nil
}
