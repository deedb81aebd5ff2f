package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"concrete-dispatch-service/internal/domain"
	"concrete-dispatch-service/internal/platform/obs"
	"concrete-dispatch-service/internal/ports"
)

// ORSTravelProvider implements TravelProvider using the OpenRouteService
// directions endpoint. Caching is layered outside it by the estimator; the
// provider only speaks HTTP, with retry/backoff on transient failures.
//
// Safe for concurrent use.
type ORSTravelProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
}

func NewORSTravelProvider(apiKey string) (*ORSTravelProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSTravelProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-hgv",
	}, nil
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
	Departure   string      `json:"departure,omitempty"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance *float64 `json:"distance"`
			Duration *float64 `json:"duration"`
		} `json:"summary"`
	} `json:"routes"`
}

// Route returns travel duration and distance for one leg. A non-nil
// departAt is forwarded for a traffic-aware estimate.
func (o *ORSTravelProvider) Route(
	ctx context.Context,
	from, to domain.Coordinates,
	departAt *time.Time,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)

	bodyObj := directionsRequest{
		Coordinates: [][]float64{from.CoordsToList(), to.CoordsToList()},
	}
	if departAt != nil {
		bodyObj.Departure = departAt.UTC().Format(time.RFC3339)
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		body := bytes.NewReader(payload)
		return o.newRequest(ctx, http.MethodPost, endpoint, body)
	})
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.RouteResult{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Routes) == 0 {
		return ports.RouteResult{}, ports.ErrNoRoute
	}

	summary := dr.Routes[0].Summary
	if summary.Duration == nil || summary.Distance == nil {
		return ports.RouteResult{}, ports.ErrNoRoute
	}

	return ports.RouteResult{
		Minutes: *summary.Duration / 60,
		Km:      *summary.Distance / 1000,
	}, nil
}
