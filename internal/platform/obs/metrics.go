package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RouteCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_route_cache_hits_total",
		Help: "Route cache lookups answered without a provider call.",
	})
	RouteCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_route_cache_misses_total",
		Help: "Route cache lookups that fell through to the provider.",
	})
	ProviderCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_provider_calls_total",
		Help: "External routing provider requests issued.",
	})
	ProviderErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_provider_errors_total",
		Help: "External routing provider requests that failed or returned no route.",
	})
	ItinerariesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_itineraries_saved_total",
		Help: "Day itineraries committed to the calendar store.",
	})
)
