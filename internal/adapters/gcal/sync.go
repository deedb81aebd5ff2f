// Package gcal pushes saved itineraries to a Google calendar so drivers
// see the day's plan on their phones. The calendar store remains the
// record of truth; a failed push never unwinds a save.
package gcal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"concrete-dispatch-service/internal/domain"
)

type Sync struct {
	svc        *calendar.Service
	calendarID string
}

// New builds a sync client from service-account credentials JSON.
func New(ctx context.Context, credentialsJSON []byte, calendarID string) (*Sync, error) {
	if calendarID == "" {
		return nil, errors.New("gcal: calendar id is empty")
	}

	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("gcal: parse credentials: %w", err)
	}

	svc, err := calendar.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("gcal: build service: %w", err)
	}

	return &Sync{svc: svc, calendarID: calendarID}, nil
}

// PushDay mirrors the day's event set to the external calendar: existing
// entries in the day window are cleared, then the new set is inserted.
func (s *Sync) PushDay(ctx context.Context, day time.Time, events []domain.CalendarEvent) error {
	day = day.UTC().Truncate(24 * time.Hour)
	dayEnd := day.Add(24 * time.Hour)

	existing, err := s.svc.Events.List(s.calendarID).
		Context(ctx).
		TimeMin(day.Format(time.RFC3339)).
		TimeMax(dayEnd.Format(time.RFC3339)).
		SingleEvents(true).
		Do()
	if err != nil {
		return fmt.Errorf("gcal: list day events: %w", err)
	}

	for _, item := range existing.Items {
		if err := s.svc.Events.Delete(s.calendarID, item.Id).Context(ctx).Do(); err != nil {
			return fmt.Errorf("gcal: delete event %s: %w", item.Id, err)
		}
	}

	for _, ev := range events {
		entry := &calendar.Event{
			Summary:     ev.Summary,
			Description: ev.Description,
			Location:    ev.Location,
			ColorId:     ev.Color,
			Start:       &calendar.EventDateTime{DateTime: ev.Start.UTC().Format(time.RFC3339)},
			End:         &calendar.EventDateTime{DateTime: ev.End.UTC().Format(time.RFC3339)},
		}
		if _, err := s.svc.Events.Insert(s.calendarID, entry).Context(ctx).Do(); err != nil {
			return fmt.Errorf("gcal: insert %s event: %w", ev.Type, err)
		}
	}

	return nil
}
