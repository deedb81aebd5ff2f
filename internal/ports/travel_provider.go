package ports

import (
	"context"
	"errors"
	"time"

	"concrete-dispatch-service/internal/domain"
)

// RouteResult is the raw provider answer for one leg: unbuffered minutes
// and kilometres.
type RouteResult struct {
	Minutes float64
	Km      float64
}

// ErrNoRoute is returned when the provider cannot produce a duration for a
// leg (unreachable service, timeout, or no route between the points).
// Callers treat such legs as unknown rather than failing the whole pass.
var ErrNoRoute = errors.New("no route available")

// TravelProvider is the contract for the external routing service.
type TravelProvider interface {
	// Route returns travel duration and distance between two points.
	// A non-nil departAt requests a traffic-aware estimate.
	Route(ctx context.Context, from, to domain.Coordinates, departAt *time.Time) (RouteResult, error)
}
