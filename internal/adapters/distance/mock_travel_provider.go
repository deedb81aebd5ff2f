package distance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"concrete-dispatch-service/internal/domain"
	"concrete-dispatch-service/internal/ports"
)

type MockLeg struct {
	From, To domain.Coordinates
	Minutes  float64
	Km       float64
}

// MockTravelProvider answers from a fixed leg table and counts calls.
// Legs not in the table return ErrNoRoute, which makes provider-failure
// paths easy to exercise. Safe for concurrent use, like the real provider.
type MockTravelProvider struct {
	m map[string]ports.RouteResult

	mu    sync.Mutex
	calls int
}

func NewMockTravelProvider(legs []MockLeg) *MockTravelProvider {
	m := make(map[string]ports.RouteResult, len(legs))
	for _, l := range legs {
		m[legKey(l.From, l.To)] = ports.RouteResult{Minutes: l.Minutes, Km: l.Km}
	}
	return &MockTravelProvider{m: m}
}

func legKey(from, to domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f", from.Lat, from.Lng, to.Lat, to.Lng)
}

func (p *MockTravelProvider) Route(ctx context.Context, from, to domain.Coordinates, departAt *time.Time) (ports.RouteResult, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	r, ok := p.m[legKey(from, to)]
	if !ok {
		return ports.RouteResult{}, fmt.Errorf("mock: %w for %s", ports.ErrNoRoute, legKey(from, to))
	}
	return r, nil
}

// Calls reports how many Route calls the provider has served.
func (p *MockTravelProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
