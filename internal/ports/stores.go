package ports

import (
	"context"
	"time"

	"concrete-dispatch-service/internal/domain"
)

// BookingStore is the boundary for reading bookings and flipping their
// scheduled flag. Bookings are created and edited elsewhere.
type BookingStore interface {
	// ListBookings returns bookings whose due time falls in [from, to).
	ListBookings(ctx context.Context, from, to time.Time) ([]*domain.Booking, error)
	// MarkScheduled flips a booking's scheduled flag after a save.
	MarkScheduled(ctx context.Context, bookingID string) error
}

// CalendarStore persists synthesized events. A save replaces the whole
// day's event set.
type CalendarStore interface {
	// ListEvents returns stored events whose start falls in [from, to).
	ListEvents(ctx context.Context, from, to time.Time) ([]domain.CalendarEvent, error)
	// ReplaceDay atomically swaps the day's events for the given set.
	ReplaceDay(ctx context.Context, day time.Time, events []domain.CalendarEvent) error
}

// SettingsStore reads the dispatcher-managed system settings.
type SettingsStore interface {
	Read(ctx context.Context) (domain.SystemSettings, error)
}
