package distance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"concrete-dispatch-service/internal/domain"
	"concrete-dispatch-service/internal/ports"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *ORSTravelProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewORSTravelProvider("test-key")
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	p.baseURL = srv.URL
	return p
}

func directionsBody(distanceM, durationS float64) string {
	return `{"routes":[{"summary":{"distance":` +
		jsonNumber(distanceM) + `,"duration":` + jsonNumber(durationS) + `}}]}`
}

func jsonNumber(v float64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestORSRoute(t *testing.T) {
	var gotReq directionsRequest
	var gotAuth string

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/v2/directions/driving-hgv" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(directionsBody(20000, 2400)))
	})

	from := domain.Coordinates{Lat: 50.736, Lng: -3.535}
	to := domain.Coordinates{Lat: 50.8, Lng: -3.6}

	res, err := p.Route(context.Background(), from, to, nil)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if res.Minutes != 40 || res.Km != 20 {
		t.Fatalf("got %+v, want 40 min / 20 km", res)
	}
	if gotAuth != "test-key" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	// ORS wants lng,lat pairs.
	if len(gotReq.Coordinates) != 2 || gotReq.Coordinates[0][0] != -3.535 {
		t.Fatalf("coordinates = %v", gotReq.Coordinates)
	}
	if gotReq.Departure != "" {
		t.Fatalf("departure sent on a non-traffic query: %q", gotReq.Departure)
	}
}

func TestORSRouteForwardsDeparture(t *testing.T) {
	var gotReq directionsRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(directionsBody(20000, 2400)))
	})

	depart := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	_, err := p.Route(context.Background(),
		domain.Coordinates{Lat: 50.736, Lng: -3.535},
		domain.Coordinates{Lat: 50.8, Lng: -3.6},
		&depart)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if gotReq.Departure != "2026-09-01T08:00:00Z" {
		t.Fatalf("departure = %q", gotReq.Departure)
	}
}

func TestORSRouteNoRoutes(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes":[]}`))
	})

	_, err := p.Route(context.Background(),
		domain.Coordinates{Lat: 50.736, Lng: -3.535},
		domain.Coordinates{Lat: 50.8, Lng: -3.6}, nil)
	if !errors.Is(err, ports.ErrNoRoute) {
		t.Fatalf("err = %v, want ErrNoRoute", err)
	}
}

func TestORSRouteRetriesTransientFailures(t *testing.T) {
	attempts := 0
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(directionsBody(20000, 2400)))
	})

	res, err := p.Route(context.Background(),
		domain.Coordinates{Lat: 50.736, Lng: -3.535},
		domain.Coordinates{Lat: 50.8, Lng: -3.6}, nil)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want a single retry", attempts)
	}
	if res.Km != 20 {
		t.Fatalf("got %+v", res)
	}
}

func TestORSRouteDoesNotRetryAuthErrors(t *testing.T) {
	attempts := 0
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "bad key", http.StatusUnauthorized)
	})

	_, err := p.Route(context.Background(),
		domain.Coordinates{Lat: 50.736, Lng: -3.535},
		domain.Coordinates{Lat: 50.8, Lng: -3.6}, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want no retries on a 401", attempts)
	}
}
