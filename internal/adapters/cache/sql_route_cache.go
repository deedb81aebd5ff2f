package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"concrete-dispatch-service/internal/domain"
	"concrete-dispatch-service/internal/platform/obs"
	"concrete-dispatch-service/internal/ports"
)

// SQLRouteCache is the Postgres variant of the route cache, used when the
// fleet shares one central database.
type SQLRouteCache struct {
	DB *sql.DB
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

// Get returns the most recent cached result for the pair, if any.
func (s *SQLRouteCache) Get(ctx context.Context, from, to domain.Coordinates) (_ ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return ports.RouteResult{}, false, errors.New("route cache: db is nil")
	}

	q := `
	SELECT minutes, km
	FROM route_cache
	WHERE from_lat = $1 AND from_lng = $2 AND to_lat = $3 AND to_lng = $4
	ORDER BY created_at DESC, id DESC
	LIMIT 1;
	`

	var res ports.RouteResult
	err = s.DB.QueryRowContext(ctx, q, from.Lat, from.Lng, to.Lat, to.Lng).
		Scan(&res.Minutes, &res.Km)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	return res, true, nil
}

// Put appends a raw provider result for the pair.
func (s *SQLRouteCache) Put(ctx context.Context, from, to domain.Coordinates, res ports.RouteResult) (err error) {
	defer obs.Time(ctx, "route.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	q := `
	INSERT INTO route_cache (from_lat, from_lng, to_lat, to_lng, minutes, km, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
	`

	if _, err := s.DB.ExecContext(ctx, q,
		from.Lat, from.Lng, to.Lat, to.Lng, res.Minutes, res.Km, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	return nil
}
