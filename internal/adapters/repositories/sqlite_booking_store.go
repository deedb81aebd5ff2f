package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"concrete-dispatch-service/internal/domain"
)

// SQLite-backed implementation of the BookingStore port.
type SqliteBookingStore struct{ DB *sql.DB }

func NewSqliteBookingStore(db *sql.DB) *SqliteBookingStore {
	return &SqliteBookingStore{DB: db}
}

// ListBookings returns bookings due in [from, to), ordered by due time.
func (s *SqliteBookingStore) ListBookings(ctx context.Context, from, to time.Time) ([]*domain.Booking, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite booking store: DB is nil")
	}

	query := `
	SELECT
		id, due, project, quantity, delivered, on_site_minutes, mix,
		project_lat, project_lng, custom_lat, custom_lng, contact, comment, scheduled
	FROM bookings
	WHERE due >= ? AND due < ?
	ORDER BY due, id;
	`

	rows, err := s.DB.QueryContext(ctx, query,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("list bookings: query bookings table: %w", err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0, 16)
	for rows.Next() {
		var (
			b         domain.Booking
			due       string
			delivered int
			scheduled int
			pLat      sql.NullFloat64
			pLng      sql.NullFloat64
			cLat      sql.NullFloat64
			cLng      sql.NullFloat64
		)
		if err := rows.Scan(
			&b.ID, &due, &b.ProjectName, &b.Quantity, &delivered, &b.OnSiteMinutes, &b.MixName,
			&pLat, &pLng, &cLat, &cLng, &b.ContactName, &b.Comment, &scheduled,
		); err != nil {
			return nil, fmt.Errorf("list bookings: scan row: %w", err)
		}

		b.Due, err = time.Parse(time.RFC3339, due)
		if err != nil {
			return nil, fmt.Errorf("list bookings: booking %s: parse due %q: %w", b.ID, due, err)
		}
		b.Delivered = delivered != 0
		b.Scheduled = scheduled != 0
		if pLat.Valid && pLng.Valid {
			b.ProjectCoords = &domain.Coordinates{Lat: pLat.Float64, Lng: pLng.Float64}
		}
		if cLat.Valid && cLng.Valid {
			b.CustomCoords = &domain.Coordinates{Lat: cLat.Float64, Lng: cLng.Float64}
		}

		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: row iteration: %w", err)
	}

	return bookings, nil
}

// MarkScheduled flips a booking's scheduled flag.
func (s *SqliteBookingStore) MarkScheduled(ctx context.Context, bookingID string) error {
	if s.DB == nil {
		return errors.New("sqlite booking store: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE bookings SET scheduled = 1 WHERE id = ?;`, bookingID)
	if err != nil {
		return fmt.Errorf("mark scheduled: update booking %s: %w", bookingID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark scheduled: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mark scheduled: no booking with id %s", bookingID)
	}

	return nil
}
