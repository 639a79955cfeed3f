package providers

import (
	"context"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
)

// MatrixResult holds the travel metrics from one origin to a set of
// destinations. Distances and Durations run parallel to the
// destination slice passed to Matrix: Distances[i] is the driving
// distance in meters from the origin to destination i, Durations[i]
// the travel time in seconds.
type MatrixResult struct {
	Distances []float64
	Durations []float64
}

// RoutingProvider is the contract for an external routing-matrix
// service: one origin, N destinations, real road-network distances.
// The resolver depends only on this contract, not on any specific
// provider's transport.
type RoutingProvider interface {
	// Matrix computes driving distance and duration from the origin to
	// every destination in one call.
	Matrix(ctx context.Context, origin entities.GeoPoint, destinations []entities.GeoPoint) (*MatrixResult, error)
}
