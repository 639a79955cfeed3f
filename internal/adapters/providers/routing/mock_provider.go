package routing

import (
	"context"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/providers"
	"github.com/savoraeats/savora-backend/pkg/geo"
)

// Assumed average road speed for the mock's duration estimate.
const mockSpeedKmPerHour = 30.0

// MockRoutingProvider implements a routing provider for local
// development and tests: great-circle distance instead of a road
// network, constant speed for durations.
type MockRoutingProvider struct{}

// NewMockRoutingProvider creates a new mock routing provider
func NewMockRoutingProvider() providers.RoutingProvider {
	return &MockRoutingProvider{}
}

// Matrix computes haversine distances from the origin to every
// destination.
func (m *MockRoutingProvider) Matrix(ctx context.Context, origin entities.GeoPoint, destinations []entities.GeoPoint) (*providers.MatrixResult, error) {
	result := &providers.MatrixResult{
		Distances: make([]float64, len(destinations)),
		Durations: make([]float64, len(destinations)),
	}

	for i, d := range destinations {
		km := geo.HaversineKm(origin.Latitude, origin.Longitude, d.Latitude, d.Longitude)
		result.Distances[i] = km * 1000
		result.Durations[i] = km / mockSpeedKmPerHour * 3600
	}

	return result, nil
}
