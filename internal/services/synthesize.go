package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"concrete-dispatch-service/internal/domain"
	"concrete-dispatch-service/internal/platform/obs"
)

const (
	// The fleet's working day opens at 06:00.
	dayStartHour = 6
	// Breaks are a fixed half hour.
	breakMinutes = 30
	// A collection is a one-hour task handled at the quarry.
	collectionMinutes = 60
)

// CoordinateError halts synthesis: a delivery has neither project nor
// custom coordinates, so no itinerary can be computed until the dispatcher
// adds them.
type CoordinateError struct {
	Project string
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("project %s has no coordinates; add them before scheduling", e.Project)
}

// Synthesizer turns a validated, ordered row list into a time-stamped
// event list. It walks the rows once, carrying a running clock, the
// remaining payload and the vehicle's last known location.
type Synthesizer struct {
	est      *TravelEstimator
	settings domain.SystemSettings
}

func NewSynthesizer(est *TravelEstimator, settings domain.SystemSettings) *Synthesizer {
	return &Synthesizer{est: est, settings: settings.Normalized()}
}

// Synthesize produces the day's itinerary. It runs a first pass anchored
// at 06:00, then re-runs once with a global start offset so the first
// delivery's arrival lands exactly on its due time. The walk itself is
// deliberately re-entrant under a shifted start, which keeps due-time
// anchoring out of the per-row logic.
func (s *Synthesizer) Synthesize(ctx context.Context, day time.Time, rows []domain.Row) (_ []domain.CalendarEvent, err error) {
	defer obs.Time(ctx, "synthesizer.Synthesize")(&err)

	events, firstArrival, firstDue, err := s.pass(ctx, day, rows, 0)
	if err != nil {
		return nil, err
	}

	if firstArrival != nil && firstDue != nil {
		offset := int(firstDue.Sub(*firstArrival) / time.Minute)
		if offset != 0 {
			events, _, _, err = s.pass(ctx, day, rows, offset)
			if err != nil {
				return nil, err
			}
		}
	}

	return events, nil
}

// pass performs one full walk at the given start offset. It reports the
// first delivery's computed arrival and due time so the caller can anchor
// the day.
func (s *Synthesizer) pass(ctx context.Context, day time.Time, rows []domain.Row, offsetMinutes int) ([]domain.CalendarEvent, *time.Time, *time.Time, error) {
	day = day.UTC()
	clock := time.Date(day.Year(), day.Month(), day.Day(), dayStartHour, 0, 0, 0, time.UTC).
		Add(minutes(offsetMinutes))

	capacity := s.settings.MaxLoadM3
	location := s.settings.Quarry
	firstDeliveryPending := true

	var firstArrival, firstDue *time.Time
	events := make([]domain.CalendarEvent, 0, len(rows)*3+1)

	emit := func(typ domain.EventType, dur int, ev domain.CalendarEvent) {
		ev.Type = typ
		ev.Start = clock
		ev.End = clock.Add(minutes(dur))
		events = append(events, ev)
		clock = ev.End
	}

	lastIncluded := -1
	for i, r := range rows {
		if r.Included {
			lastIncluded = i
		}
	}

	// The vehicle always starts the day loading at the quarry.
	emit(domain.EventLoading, s.settings.LoadingMinutes, domain.CalendarEvent{Summary: "Loading at quarry"})

	for i, r := range rows {
		if !r.Included {
			continue
		}

		switch r.Kind {
		case domain.KindReload:
			emit(domain.EventLoading, s.settings.LoadingMinutes, domain.CalendarEvent{Summary: "Reload at quarry"})
			capacity = s.settings.MaxLoadM3

		case domain.KindBreak:
			emit(domain.EventBreak, breakMinutes, domain.CalendarEvent{Summary: "Break"})

		case domain.KindReturn:
			depart := clock
			leg, err := s.est.Estimate(ctx, location, s.settings.Quarry, &depart)
			switch {
			case errors.Is(err, ErrNoEstimate):
				// Unknown leg: no travel block, clock unmoved.
			case err != nil:
				return nil, nil, nil, err
			default:
				emit(domain.EventTravelling, leg.Minutes, domain.CalendarEvent{Summary: "Return to quarry"})
			}
			if i != lastIncluded {
				emit(domain.EventLoading, s.settings.LoadingMinutes, domain.CalendarEvent{Summary: "Loading at quarry"})
			}
			capacity = s.settings.MaxLoadM3
			location = s.settings.Quarry

		case domain.KindBooking:
			b := r.Booking
			if !b.Delivered {
				emit(domain.EventOnSite, collectionMinutes, domain.CalendarEvent{
					BookingID:   b.ID,
					Summary:     "Collection: " + b.ProjectName,
					Description: bookingDescription(b, false),
					Location:    locationText(s.settings.Quarry),
					Color:       bookingColor(b),
				})
				if s.settings.WashMinutes > 0 {
					emit(domain.EventWash, s.settings.WashMinutes, domain.CalendarEvent{Summary: "Wash"})
				}
				capacity = s.settings.MaxLoadM3
				location = s.settings.Quarry
				continue
			}

			// A single booking beyond the payload can never ride this
			// vehicle; the row is dropped from the itinerary.
			if b.Quantity > s.settings.MaxLoadM3 {
				continue
			}

			site, custom := b.SiteCoords()
			if !b.HasCoords() {
				return nil, nil, nil, &CoordinateError{Project: b.ProjectName}
			}

			depart := clock
			leg, err := s.est.Estimate(ctx, location, site, &depart)
			switch {
			case errors.Is(err, ErrNoEstimate):
				// Unknown leg: the on-site block starts at the unmoved
				// clock. This understates the day's elapsed time; kept for
				// compatibility with dispatcher expectations.
			case err != nil:
				return nil, nil, nil, err
			default:
				travel := minutes(leg.Minutes)
				travelStart := clock
				if arrival := clock.Add(travel); b.Due.After(arrival) {
					// Never arrive early against a stated due time. The
					// start is delayed, never pulled before the clock.
					travelStart = b.Due.Add(-travel)
				}
				if travelStart.After(clock) {
					events = append(events, domain.CalendarEvent{
						Type:    domain.EventWaiting,
						Start:   clock,
						End:     travelStart,
						Summary: "Waiting",
					})
					clock = travelStart
				}
				emit(domain.EventTravelling, leg.Minutes, domain.CalendarEvent{
					Summary:  "Travelling to " + b.ProjectName,
					Location: locationText(site),
				})
			}

			if firstDeliveryPending {
				arrival := clock
				due := b.Due
				firstArrival, firstDue = &arrival, &due
				firstDeliveryPending = false
			}

			emit(domain.EventOnSite, b.OnSiteMinutes, domain.CalendarEvent{
				BookingID:    b.ID,
				Summary:      "Delivery: " + b.ProjectName,
				Description:  bookingDescription(b, custom),
				Location:     locationText(site),
				Color:        bookingColor(b),
				// Only the delivery that breaches the payload is flagged;
				// later deliveries in the same trip stay unflagged.
				OverCapacity: capacity >= 0 && capacity-b.Quantity < 0,
			})
			if s.settings.WashMinutes > 0 {
				emit(domain.EventWash, s.settings.WashMinutes, domain.CalendarEvent{Summary: "Wash"})
			}
			capacity -= b.Quantity
			location = site
		}
	}

	return events, firstArrival, firstDue, nil
}

func minutes(n int) time.Duration { return time.Duration(n) * time.Minute }

func locationText(c domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lng)
}

// bookingDescription concatenates the details a driver needs on the
// calendar entry: mix, quantity, contact, note and a marker when the
// booking overrides the project location.
func bookingDescription(b *domain.Booking, custom bool) string {
	parts := []string{
		b.MixName,
		fmt.Sprintf("%.2f m3", b.Quantity),
	}
	if b.ContactName != "" {
		parts = append(parts, b.ContactName)
	}
	if b.Comment != "" {
		parts = append(parts, b.Comment)
	}
	if custom {
		parts = append(parts, "custom location")
	}
	return strings.Join(parts, ", ")
}

// bookingColor is a binary classification: special mixes and collections
// get the alternate colour.
func bookingColor(b *domain.Booking) string {
	if b.MixSuffix() == domain.SpecialMixSuffix || !b.Delivered {
		return domain.ColorSpecial
	}
	return domain.ColorStandard
}
