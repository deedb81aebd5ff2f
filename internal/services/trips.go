package services

import (
	"context"
	"errors"
	"sync"

	"concrete-dispatch-service/internal/domain"
)

// TripSummary is the per-trip quantity roll-up shown alongside the row
// list and used for the over-capacity cross-check.
type TripSummary struct {
	Trip         int
	DeliveredM3  float64
	CollectedM3  float64
	OverCapacity bool
}

// TripMetrics carries estimator-derived distance and duration totals for
// one trip.
type TripMetrics struct {
	Trip    int
	Km      float64
	Minutes int
}

// TripSummaries replays the ordered rows and groups booking quantities
// between quarry visits. Returns and reloads both close a trip; a reload
// keeps the accumulation running into the next one.
func TripSummaries(rows []domain.Row, maxLoad float64) []TripSummary {
	var out []TripSummary
	cur := TripSummary{Trip: 1}
	seen := 0

	flush := func() {
		if seen == 0 {
			return
		}
		cur.OverCapacity = cur.DeliveredM3 > maxLoad
		out = append(out, cur)
		cur = TripSummary{Trip: cur.Trip + 1}
		seen = 0
	}

	for _, r := range rows {
		if !r.Included {
			continue
		}
		if r.IsTripBoundary() {
			flush()
			continue
		}
		if r.Kind != domain.KindBooking {
			continue
		}
		seen++
		if r.Booking.Delivered {
			cur.DeliveredM3 += r.Booking.Quantity
		} else {
			cur.CollectedM3 += r.Booking.Quantity
		}
	}
	flush()

	return out
}

type tripLeg struct {
	trip     int
	from, to domain.Coordinates
}

type tripLegResult struct {
	idx int
	leg LegEstimate
	err error
}

// Estimator calls for display totals are independent of synthesis order,
// so they fan out under a small limit to spare the external provider.
const tripLegConcurrency = 5

// TripLegMetrics derives per-trip distance and duration totals by replaying
// the rows and pricing each leg through the estimator without a departure
// time (cache-friendly). Legs the provider cannot price contribute nothing.
func TripLegMetrics(ctx context.Context, est *TravelEstimator, quarry domain.Coordinates, rows []domain.Row) ([]TripMetrics, error) {
	legs := tripLegs(quarry, rows)
	if len(legs) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, tripLegConcurrency)
	resultsCh := make(chan tripLegResult, len(legs))
	var wg sync.WaitGroup

	for i, l := range legs {
		wg.Add(1)
		go func(idx int, l tripLeg) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			leg, err := est.Estimate(ctx, l.from, l.to, nil)
			resultsCh <- tripLegResult{idx: idx, leg: leg, err: err}
		}(i, l)
	}

	wg.Wait()
	close(resultsCh)

	priced := make([]*LegEstimate, len(legs))
	var firstErr error
	for res := range resultsCh {
		switch {
		case errors.Is(res.err, ErrNoEstimate):
			// Unpriceable leg: omitted from the totals.
		case res.err != nil:
			if firstErr == nil {
				firstErr = res.err
			}
		default:
			leg := res.leg
			priced[res.idx] = &leg
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	maxTrip := 0
	for _, l := range legs {
		if l.trip > maxTrip {
			maxTrip = l.trip
		}
	}

	out := make([]TripMetrics, maxTrip)
	for i := range out {
		out[i].Trip = i + 1
	}
	for i, l := range legs {
		if priced[i] == nil {
			continue
		}
		out[l.trip-1].Km += priced[i].Km
		out[l.trip-1].Minutes += priced[i].Minutes
	}

	return out, nil
}

// tripLegs lists the travel legs implied by the ordered rows, tagged with
// their 1-based trip number. Collections happen at the quarry and add no
// leg; rows without coordinates are ignored here (synthesis reports them).
func tripLegs(quarry domain.Coordinates, rows []domain.Row) []tripLeg {
	var legs []tripLeg
	location := quarry
	trip := 1

	for _, r := range rows {
		if !r.Included {
			continue
		}
		if r.IsTripBoundary() {
			if location != quarry {
				legs = append(legs, tripLeg{trip: trip, from: location, to: quarry})
				location = quarry
			}
			trip++
			continue
		}
		if r.Kind != domain.KindBooking {
			continue
		}
		if !r.Booking.Delivered {
			location = quarry
			continue
		}
		site, _ := r.Booking.SiteCoords()
		if !r.Booking.HasCoords() {
			continue
		}
		legs = append(legs, tripLeg{trip: trip, from: location, to: site})
		location = site
	}

	return legs
}
