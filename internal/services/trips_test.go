package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concrete-dispatch-service/internal/adapters/distance"
	"concrete-dispatch-service/internal/domain"
)

func TestTripSummaries(t *testing.T) {
	rows := []domain.Row{
		bookingRow(delivery("bk-1", siteA, at(9, 0), 4, "C25ST"), 1),
		bookingRow(delivery("bk-2", siteB, at(10, 0), 5, "C25ST"), 2),
		returnRow("r1", 3),
		bookingRow(delivery("bk-3", siteC, at(12, 0), 2, "C30ST"), 4),
		bookingRow(collection("bk-4", 3), 5),
		endRow(6),
	}

	got := TripSummaries(rows, 8)
	require.Len(t, got, 2)

	assert.Equal(t, TripSummary{Trip: 1, DeliveredM3: 9, OverCapacity: true}, got[0])
	assert.Equal(t, TripSummary{Trip: 2, DeliveredM3: 2, CollectedM3: 3}, got[1])
}

func TestTripSummariesSkipsEmptyTrips(t *testing.T) {
	rows := []domain.Row{
		returnRow("r1", 1),
		bookingRow(delivery("bk-1", siteA, at(9, 0), 4, "C25ST"), 2),
		endRow(3),
	}

	got := TripSummaries(rows, 8)
	require.Len(t, got, 1)
	assert.Equal(t, 4.0, got[0].DeliveredM3)
}

func TestTripSummariesIgnoresExcludedRows(t *testing.T) {
	off := bookingRow(delivery("bk-2", siteB, at(10, 0), 5, "C25ST"), 0)
	off.Included = false

	rows := []domain.Row{
		bookingRow(delivery("bk-1", siteA, at(9, 0), 4, "C25ST"), 1),
		off,
		endRow(2),
	}

	got := TripSummaries(rows, 8)
	require.Len(t, got, 1)
	assert.Equal(t, 4.0, got[0].DeliveredM3)
	assert.False(t, got[0].OverCapacity)
}

func tripTestRows() []domain.Row {
	return []domain.Row{
		bookingRow(delivery("bk-1", siteA, at(9, 0), 4, "C25ST"), 1),
		bookingRow(delivery("bk-2", siteB, at(10, 0), 3, "C25ST"), 2),
		returnRow("r1", 3),
		bookingRow(delivery("bk-3", siteC, at(12, 0), 2, "C30ST"), 4),
		endRow(5),
	}
}

func TestTripLegMetrics(t *testing.T) {
	provider := distance.NewMockTravelProvider([]distance.MockLeg{
		{From: quarry, To: siteA, Minutes: 30, Km: 10},
		{From: siteA, To: siteB, Minutes: 20, Km: 5},
		{From: siteB, To: quarry, Minutes: 40, Km: 12},
		{From: quarry, To: siteC, Minutes: 15, Km: 4},
		{From: siteC, To: quarry, Minutes: 15, Km: 4},
	})
	est := NewTravelEstimator(provider, newMemCache(), testSettings())

	got, err := TripLegMetrics(context.Background(), est, quarry, tripTestRows())
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Trip 1: out to A, A to B, B back to the quarry. Minutes are the
	// adjusted estimates (quarter-hour rounding).
	assert.Equal(t, TripMetrics{Trip: 1, Km: 27, Minutes: 105}, got[0])
	assert.Equal(t, TripMetrics{Trip: 2, Km: 8, Minutes: 30}, got[1])
}

func TestTripLegMetricsSkipsUnpricedLegs(t *testing.T) {
	provider := distance.NewMockTravelProvider([]distance.MockLeg{
		{From: quarry, To: siteA, Minutes: 30, Km: 10},
		{From: siteB, To: quarry, Minutes: 40, Km: 12},
		{From: quarry, To: siteC, Minutes: 15, Km: 4},
		{From: siteC, To: quarry, Minutes: 15, Km: 4},
	})
	est := NewTravelEstimator(provider, newMemCache(), testSettings())

	got, err := TripLegMetrics(context.Background(), est, quarry, tripTestRows())
	require.NoError(t, err)
	require.Len(t, got, 2)

	// The A-to-B leg has no price and contributes nothing.
	assert.Equal(t, TripMetrics{Trip: 1, Km: 22, Minutes: 75}, got[0])
	assert.Equal(t, TripMetrics{Trip: 2, Km: 8, Minutes: 30}, got[1])
}

func TestTripLegMetricsNoLegs(t *testing.T) {
	est := NewTravelEstimator(distance.NewMockTravelProvider(nil), nil, testSettings())

	rows := []domain.Row{bookingRow(collection("bk-1", 2), 1)}
	got, err := TripLegMetrics(context.Background(), est, quarry, rows)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTripLegsCollectionStaysAtQuarry(t *testing.T) {
	rows := []domain.Row{
		bookingRow(collection("bk-1", 2), 1),
		bookingRow(delivery("bk-2", siteA, at(10, 0), 4, "C25ST"), 2),
		endRow(3),
	}

	legs := tripLegs(quarry, rows)
	require.Len(t, legs, 2)
	assert.Equal(t, tripLeg{trip: 1, from: quarry, to: siteA}, legs[0])
	assert.Equal(t, tripLeg{trip: 1, from: siteA, to: quarry}, legs[1])
}
