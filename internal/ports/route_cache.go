package ports

import (
	"context"

	"concrete-dispatch-service/internal/domain"
)

// RouteCache stores raw provider results keyed by rounded coordinate pairs.
// Lookups are most-recent-wins; traffic-aware estimates bypass the cache
// entirely, a decision the estimator makes explicitly. Implementations
// must be safe for concurrent use: trip leg pricing fans out.
type RouteCache interface {
	// Get returns the most recent cached result for the pair, if any.
	Get(ctx context.Context, from, to domain.Coordinates) (RouteResult, bool, error)
	// Put stores a raw (unbuffered) provider result for the pair.
	Put(ctx context.Context, from, to domain.Coordinates, res RouteResult) error
}
