package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"concrete-dispatch-service/internal/domain"
	"concrete-dispatch-service/internal/ports"
)

// SQLite-backed route cache. Entries are appended, never overwritten;
// lookups take the newest entry for the coordinate pair. Callers are
// expected to round coordinates before keying.
type SqliteRouteCache struct {
	DB *sql.DB
}

func NewSqliteRouteCache(db *sql.DB) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db}
}

// Get returns the most recent cached result for the pair, if any.
func (s *SqliteRouteCache) Get(ctx context.Context, from, to domain.Coordinates) (ports.RouteResult, bool, error) {
	if s.DB == nil {
		return ports.RouteResult{}, false, errors.New("route cache: db is nil")
	}

	q := `
	SELECT minutes, km
	FROM route_cache
	WHERE from_lat = ? AND from_lng = ? AND to_lat = ? AND to_lng = ?
	ORDER BY created_at DESC, id DESC
	LIMIT 1;
	`

	var res ports.RouteResult
	err := s.DB.QueryRowContext(ctx, q, from.Lat, from.Lng, to.Lat, to.Lng).
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
func (s *SqliteRouteCache) Put(ctx context.Context, from, to domain.Coordinates, res ports.RouteResult) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	q := `
	INSERT INTO route_cache (from_lat, from_lng, to_lat, to_lng, minutes, km, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q,
		from.Lat, from.Lng, to.Lat, to.Lng, res.Minutes, res.Km, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	return nil
}
