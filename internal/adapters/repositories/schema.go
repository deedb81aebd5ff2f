package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createBookingsQuery := `
	CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		due TEXT NOT NULL,
		project TEXT NOT NULL,
		quantity REAL NOT NULL,
		delivered INTEGER NOT NULL,
		on_site_minutes INTEGER NOT NULL DEFAULT 0,
		mix TEXT NOT NULL,
		project_lat REAL,
		project_lng REAL,
		custom_lat REAL,
		custom_lng REAL,
		contact TEXT NOT NULL DEFAULT '',
		comment TEXT NOT NULL DEFAULT '',
		scheduled INTEGER NOT NULL DEFAULT 0
	);
	`

	createCalendarQuery := `
	CREATE TABLE IF NOT EXISTS calendar_events (
		id INTEGER PRIMARY KEY,
		day TEXT NOT NULL,
		type TEXT NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		booking_id TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		over_capacity INTEGER NOT NULL DEFAULT 0
	);
	`

	createSettingsQuery := `
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		calendar_id TEXT NOT NULL DEFAULT '',
		quarry_lat REAL NOT NULL DEFAULT 0,
		quarry_lng REAL NOT NULL DEFAULT 0,
		buffer_minutes INTEGER NOT NULL DEFAULT 0,
		max_speed_kmh REAL NOT NULL DEFAULT 0,
		wash_minutes INTEGER NOT NULL DEFAULT 0,
		loading_minutes INTEGER NOT NULL DEFAULT 0,
		max_load_m3 REAL NOT NULL DEFAULT 8
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		id INTEGER PRIMARY KEY,
		from_lat REAL NOT NULL,
		from_lng REAL NOT NULL,
		to_lat REAL NOT NULL,
		to_lng REAL NOT NULL,
		minutes REAL NOT NULL,
		km REAL NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	createIndexQueries := `
	CREATE INDEX IF NOT EXISTS idx_bookings_due ON bookings(due);
	CREATE INDEX IF NOT EXISTS idx_calendar_events_day ON calendar_events(day);
	CREATE INDEX IF NOT EXISTS idx_calendar_events_start ON calendar_events(start_at);
	CREATE INDEX IF NOT EXISTS idx_route_cache_pair
	ON route_cache(from_lat, from_lng, to_lat, to_lng, created_at);
	`

	statements := []string{
		createBookingsQuery,
		createCalendarQuery,
		createSettingsQuery,
		createRouteCacheQuery,
	}
	for _, idx := range strings.Split(createIndexQueries, ";") {
		if strings.TrimSpace(idx) != "" {
			statements = append(statements, idx+";")
		}
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type BookingSeed struct {
	ID            string   `json:"id"`
	Due           string   `json:"due"`
	Project       string   `json:"project"`
	Quantity      float64  `json:"quantity"`
	Delivered     bool     `json:"delivered"`
	OnSiteMinutes int      `json:"on_site_minutes"`
	Mix           string   `json:"mix"`
	ProjectLat    *float64 `json:"project_lat"`
	ProjectLng    *float64 `json:"project_lng"`
	CustomLat     *float64 `json:"custom_lat"`
	CustomLng     *float64 `json:"custom_lng"`
	Contact       string   `json:"contact"`
	Comment       string   `json:"comment"`
}

type SettingsSeed struct {
	CalendarID     string  `json:"calendar_id"`
	QuarryLat      float64 `json:"quarry_lat"`
	QuarryLng      float64 `json:"quarry_lng"`
	BufferMinutes  int     `json:"buffer_minutes"`
	MaxSpeedKmh    float64 `json:"max_speed_kmh"`
	WashMinutes    int     `json:"wash_minutes"`
	LoadingMinutes int     `json:"loading_minutes"`
	MaxLoadM3      float64 `json:"max_load_m3"`
}

type Seed struct {
	Settings *SettingsSeed `json:"settings"`
	Bookings []BookingSeed `json:"bookings"`
}

// Populate the database with bookings and settings from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var seed Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("seed: parse json: %w", err)
	}

	for i, b := range seed.Bookings {
		if strings.TrimSpace(b.ID) == "" {
			return fmt.Errorf("seed: booking at index %d has no id", i+1)
		}
		if _, err := time.Parse(time.RFC3339, b.Due); err != nil {
			return fmt.Errorf("seed: booking %s: bad due time %q: %w", b.ID, b.Due, err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if seed.Settings != nil {
		s := seed.Settings
		if _, err := tx.Exec(`
		INSERT OR REPLACE INTO settings (
			id, calendar_id, quarry_lat, quarry_lng, buffer_minutes,
			max_speed_kmh, wash_minutes, loading_minutes, max_load_m3
		)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?);
		`, s.CalendarID, s.QuarryLat, s.QuarryLng, s.BufferMinutes,
			s.MaxSpeedKmh, s.WashMinutes, s.LoadingMinutes, s.MaxLoadM3,
		); err != nil {
			return fmt.Errorf("seed: insert settings: %w", err)
		}
	}

	stmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO bookings (
		id, due, project, quantity, delivered, on_site_minutes, mix,
		project_lat, project_lng, custom_lat, custom_lng, contact, comment, scheduled
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0);
	`)
	if err != nil {
		return fmt.Errorf("seed: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range seed.Bookings {
		if _, err := stmt.Exec(
			b.ID, b.Due, b.Project, b.Quantity, b.Delivered, b.OnSiteMinutes, b.Mix,
			b.ProjectLat, b.ProjectLng, b.CustomLat, b.CustomLng, b.Contact, b.Comment,
		); err != nil {
			return fmt.Errorf("seed: insert booking %s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
