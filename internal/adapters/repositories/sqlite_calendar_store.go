package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"concrete-dispatch-service/internal/domain"
)

const dayFormat = "2006-01-02"

// SQLite-backed implementation of the CalendarStore port. A save replaces
// the whole day inside one transaction, so a failed write never leaves a
// partially deleted day behind.
type SqliteCalendarStore struct{ DB *sql.DB }

func NewSqliteCalendarStore(db *sql.DB) *SqliteCalendarStore {
	return &SqliteCalendarStore{DB: db}
}

// ListEvents returns stored events starting in [from, to), in start order.
func (s *SqliteCalendarStore) ListEvents(ctx context.Context, from, to time.Time) ([]domain.CalendarEvent, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite calendar store: DB is nil")
	}

	query := `
	SELECT type, start_at, end_at, booking_id, summary, description, location, color, over_capacity
	FROM calendar_events
	WHERE start_at >= ? AND start_at < ?
	ORDER BY start_at, id;
	`

	rows, err := s.DB.QueryContext(ctx, query,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("list events: query calendar_events table: %w", err)
	}
	defer rows.Close()

	events := make([]domain.CalendarEvent, 0, 32)
	for rows.Next() {
		var (
			ev      domain.CalendarEvent
			typ     string
			start   string
			end     string
			overCap int
		)
		if err := rows.Scan(&typ, &start, &end, &ev.BookingID,
			&ev.Summary, &ev.Description, &ev.Location, &ev.Color, &overCap); err != nil {
			return nil, fmt.Errorf("list events: scan row: %w", err)
		}

		ev.Type = domain.EventType(typ)
		ev.OverCapacity = overCap != 0
		if ev.Start, err = time.Parse(time.RFC3339, start); err != nil {
			return nil, fmt.Errorf("list events: parse start %q: %w", start, err)
		}
		if ev.End, err = time.Parse(time.RFC3339, end); err != nil {
			return nil, fmt.Errorf("list events: parse end %q: %w", end, err)
		}

		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: row iteration: %w", err)
	}

	return events, nil
}

// ReplaceDay deletes the day's events and inserts the new set in one
// transaction.
func (s *SqliteCalendarStore) ReplaceDay(ctx context.Context, day time.Time, events []domain.CalendarEvent) error {
	if s.DB == nil {
		return errors.New("sqlite calendar store: DB is nil")
	}

	dayKey := day.UTC().Format(dayFormat)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace day: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM calendar_events WHERE day = ?;`, dayKey); err != nil {
		return fmt.Errorf("replace day: delete day %s: %w", dayKey, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO calendar_events (
		day, type, start_at, end_at, booking_id, summary, description, location, color, over_capacity
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("replace day: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx,
			dayKey, string(ev.Type),
			ev.Start.UTC().Format(time.RFC3339), ev.End.UTC().Format(time.RFC3339),
			ev.BookingID, ev.Summary, ev.Description, ev.Location, ev.Color, ev.OverCapacity,
		); err != nil {
			return fmt.Errorf("replace day: insert %s event: %w", ev.Type, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace day: commit tx: %w", err)
	}

	return nil
}
