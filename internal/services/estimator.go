package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"concrete-dispatch-service/internal/domain"
	"concrete-dispatch-service/internal/platform/obs"
	"concrete-dispatch-service/internal/ports"
)

// ErrNoEstimate marks a leg the provider could not price. Callers skip the
// travel block for such legs and leave the clock unmoved.
var ErrNoEstimate = errors.New("travel estimate unavailable")

// LegEstimate is an adjusted travel estimate: buffered minutes rounded up
// to a 15-minute boundary, plus the raw distance.
type LegEstimate struct {
	Minutes int
	Km      float64
}

// TravelEstimator prices individual legs of an itinerary. Non-traffic
// queries consult the route cache before the provider and write raw results
// back; traffic-aware queries (with a departure time) always go to the
// provider and are never cached.
type TravelEstimator struct {
	provider ports.TravelProvider
	cache    ports.RouteCache
	settings domain.SystemSettings
}

func NewTravelEstimator(provider ports.TravelProvider, cache ports.RouteCache, settings domain.SystemSettings) *TravelEstimator {
	return &TravelEstimator{provider: provider, cache: cache, settings: settings.Normalized()}
}

// Estimate returns the adjusted travel time and distance between two
// points. A non-nil departAt requests a traffic-aware estimate. The error
// is ErrNoEstimate when the provider has no answer for the leg.
func (e *TravelEstimator) Estimate(ctx context.Context, from, to domain.Coordinates, departAt *time.Time) (_ LegEstimate, err error) {
	defer obs.Time(ctx, "estimator.Estimate")(&err)

	trafficAware := departAt != nil

	if !trafficAware && e.cache != nil {
		res, ok, err := e.cache.Get(ctx, from.Rounded(), to.Rounded())
		if err != nil {
			return LegEstimate{}, fmt.Errorf("estimate leg: route cache get: %w", err)
		}
		if ok {
			obs.RouteCacheHits.Inc()
			return e.adjust(res), nil
		}
		obs.RouteCacheMisses.Inc()
	}

	res, err := e.route(ctx, from, to, departAt)
	if err != nil {
		return LegEstimate{}, err
	}

	if !trafficAware && e.cache != nil {
		// Raw minutes go in the cache so buffering is not applied twice.
		if err := e.cache.Put(ctx, from.Rounded(), to.Rounded(), res); err != nil {
			log.Warn().Err(err).Msg("route cache write failed")
		}
	}

	return e.adjust(res), nil
}

// EstimateDistance returns the raw leg distance in kilometres, with no
// speed floor or buffering. Used for trip distance aggregation.
func (e *TravelEstimator) EstimateDistance(ctx context.Context, from, to domain.Coordinates) (_ float64, err error) {
	defer obs.Time(ctx, "estimator.EstimateDistance")(&err)

	if e.cache != nil {
		res, ok, err := e.cache.Get(ctx, from.Rounded(), to.Rounded())
		if err != nil {
			return 0, fmt.Errorf("estimate distance: route cache get: %w", err)
		}
		if ok {
			obs.RouteCacheHits.Inc()
			return res.Km, nil
		}
		obs.RouteCacheMisses.Inc()
	}

	res, err := e.route(ctx, from, to, nil)
	if err != nil {
		return 0, err
	}

	if e.cache != nil {
		if err := e.cache.Put(ctx, from.Rounded(), to.Rounded(), res); err != nil {
			log.Warn().Err(err).Msg("route cache write failed")
		}
	}

	return res.Km, nil
}

func (e *TravelEstimator) route(ctx context.Context, from, to domain.Coordinates, departAt *time.Time) (ports.RouteResult, error) {
	obs.ProviderCalls.Inc()
	res, err := e.provider.Route(ctx, from, to, departAt)
	if err != nil {
		obs.ProviderErrors.Inc()
		// A timeout or unreachable provider is indistinguishable from "no
		// route" for scheduling purposes.
		return ports.RouteResult{}, fmt.Errorf("%w: %v", ErrNoEstimate, err)
	}
	return res, nil
}

// adjust applies the max-average-speed floor, then the fixed buffer, then
// rounds up to the nearest 15 minutes.
func (e *TravelEstimator) adjust(res ports.RouteResult) LegEstimate {
	minutes := res.Minutes

	if e.settings.MaxSpeedKmh > 0 && res.Km > 0 {
		floor := math.Ceil(res.Km / e.settings.MaxSpeedKmh * 60)
		if floor > minutes {
			minutes = floor
		}
	}

	rounded := int(math.Ceil((minutes+float64(e.settings.BufferMinutes))/15)) * 15

	return LegEstimate{Minutes: rounded, Km: res.Km}
}
