package ports

import (
	"context"
	"time"

	"concrete-dispatch-service/internal/domain"
)

// CalendarSync pushes already-persisted events to an external calendar.
// It runs after a successful save and never gates scheduling correctness.
type CalendarSync interface {
	PushDay(ctx context.Context, day time.Time, events []domain.CalendarEvent) error
}
