package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"concrete-dispatch-service/internal/domain"
)

// SQLite-backed implementation of the SettingsStore port. Settings live in
// a single fixed row maintained by the dispatcher screens.
type SqliteSettingsStore struct{ DB *sql.DB }

func NewSqliteSettingsStore(db *sql.DB) *SqliteSettingsStore {
	return &SqliteSettingsStore{DB: db}
}

func (s *SqliteSettingsStore) Read(ctx context.Context) (domain.SystemSettings, error) {
	if s.DB == nil {
		return domain.SystemSettings{}, errors.New("sqlite settings store: DB is nil")
	}

	query := `
	SELECT calendar_id, quarry_lat, quarry_lng, buffer_minutes,
		max_speed_kmh, wash_minutes, loading_minutes, max_load_m3
	FROM settings
	WHERE id = 1;
	`

	var out domain.SystemSettings
	err := s.DB.QueryRowContext(ctx, query).Scan(
		&out.CalendarID, &out.Quarry.Lat, &out.Quarry.Lng, &out.BufferMinutes,
		&out.MaxSpeedKmh, &out.WashMinutes, &out.LoadingMinutes, &out.MaxLoadM3,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SystemSettings{}, errors.New("read settings: not initialized; run dbtool to seed")
	}
	if err != nil {
		return domain.SystemSettings{}, fmt.Errorf("read settings: query settings table: %w", err)
	}

	return out.Normalized(), nil
}
