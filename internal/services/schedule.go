package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"concrete-dispatch-service/internal/domain"
	"concrete-dispatch-service/internal/platform/obs"
	"concrete-dispatch-service/internal/ports"
)

// ScheduleService orchestrates a scheduling pass: load the day's bookings,
// order them through the session, gate with the validators, synthesize the
// itinerary and, on save, replace the day's calendar rows.
type ScheduleService struct {
	Bookings ports.BookingStore
	Calendar ports.CalendarStore
	Settings ports.SettingsStore
	Provider ports.TravelProvider
	Cache    ports.RouteCache
	// Sync is optional; a saved day is pushed to the external calendar
	// best-effort after the store write succeeds.
	Sync ports.CalendarSync
}

// SchedulePreview is the result of a preview or save pass.
type SchedulePreview struct {
	Events    []domain.CalendarEvent
	Summaries []TripSummary
}

// DayBookings lists the bookings due on the session's day.
func (s *ScheduleService) DayBookings(ctx context.Context, day time.Time) ([]*domain.Booking, error) {
	day = day.UTC().Truncate(24 * time.Hour)
	bookings, err := s.Bookings.ListBookings(ctx, day, day.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("day bookings: %w", err)
	}
	return bookings, nil
}

// DayEvents lists the saved itinerary events for one day.
func (s *ScheduleService) DayEvents(ctx context.Context, day time.Time) ([]domain.CalendarEvent, error) {
	day = day.UTC().Truncate(24 * time.Hour)
	events, err := s.Calendar.ListEvents(ctx, day, day.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("day events: %w", err)
	}
	return events, nil
}

// Validate runs the ordering checks without touching the provider.
func (s *ScheduleService) Validate(ctx context.Context, session *domain.Session) error {
	settings, err := s.Settings.Read(ctx)
	if err != nil {
		return fmt.Errorf("validate schedule: read settings: %w", err)
	}
	settings = settings.Normalized()

	bookings, err := s.DayBookings(ctx, session.Day)
	if err != nil {
		return fmt.Errorf("validate schedule: %w", err)
	}

	rows := session.Rows(bookings, domain.AuthoritativeView)
	if err := Validate(rows); err != nil {
		return err
	}
	return ValidateQuantities(rows, settings.MaxLoadM3)
}

// Preview validates and synthesizes the itinerary without persisting it.
func (s *ScheduleService) Preview(ctx context.Context, session *domain.Session) (_ *SchedulePreview, err error) {
	defer obs.Time(ctx, "schedule.Preview")(&err)
	return s.synthesize(ctx, session)
}

// Save validates, synthesizes and commits the itinerary: the day's event
// set is replaced in one transaction and every included booking is marked
// scheduled. Nothing is written when synthesis fails.
func (s *ScheduleService) Save(ctx context.Context, session *domain.Session) (_ *SchedulePreview, err error) {
	defer obs.Time(ctx, "schedule.Save")(&err)

	preview, err := s.synthesize(ctx, session)
	if err != nil {
		return nil, err
	}

	if err := s.Calendar.ReplaceDay(ctx, session.Day, preview.Events); err != nil {
		return nil, fmt.Errorf("save schedule: replace calendar day: %w", err)
	}

	marked := make(map[string]struct{})
	for _, ev := range preview.Events {
		if ev.BookingID == "" {
			continue
		}
		if _, done := marked[ev.BookingID]; done {
			continue
		}
		marked[ev.BookingID] = struct{}{}
		if err := s.Bookings.MarkScheduled(ctx, ev.BookingID); err != nil {
			return nil, fmt.Errorf("save schedule: mark booking %s scheduled: %w", ev.BookingID, err)
		}
	}

	obs.ItinerariesSaved.Inc()

	if s.Sync != nil {
		if err := s.Sync.PushDay(ctx, session.Day, preview.Events); err != nil {
			log.Warn().Err(err).Time("day", session.Day).Msg("external calendar push failed")
		}
	}

	return preview, nil
}

// Summaries derives the trip roll-up plus estimator-backed distance and
// duration totals for the current ordering.
func (s *ScheduleService) Summaries(ctx context.Context, session *domain.Session) ([]TripSummary, []TripMetrics, error) {
	settings, err := s.Settings.Read(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("trip summaries: read settings: %w", err)
	}
	settings = settings.Normalized()

	bookings, err := s.DayBookings(ctx, session.Day)
	if err != nil {
		return nil, nil, fmt.Errorf("trip summaries: %w", err)
	}

	rows := session.Rows(bookings, domain.AuthoritativeView)
	est := NewTravelEstimator(s.Provider, s.Cache, settings)

	metrics, err := TripLegMetrics(ctx, est, settings.Quarry, rows)
	if err != nil {
		return nil, nil, fmt.Errorf("trip summaries: %w", err)
	}

	return TripSummaries(rows, settings.MaxLoadM3), metrics, nil
}

func (s *ScheduleService) synthesize(ctx context.Context, session *domain.Session) (*SchedulePreview, error) {
	settings, err := s.Settings.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("synthesize schedule: read settings: %w", err)
	}
	settings = settings.Normalized()

	bookings, err := s.DayBookings(ctx, session.Day)
	if err != nil {
		return nil, fmt.Errorf("synthesize schedule: %w", err)
	}

	rows := session.Rows(bookings, domain.AuthoritativeView)
	if err := Validate(rows); err != nil {
		return nil, err
	}
	if err := ValidateQuantities(rows, settings.MaxLoadM3); err != nil {
		return nil, err
	}

	est := NewTravelEstimator(s.Provider, s.Cache, settings)
	syn := NewSynthesizer(est, settings)

	events, err := syn.Synthesize(ctx, session.Day, rows)
	if err != nil {
		return nil, err
	}

	return &SchedulePreview{
		Events:    events,
		Summaries: TripSummaries(rows, settings.MaxLoadM3),
	}, nil
}
