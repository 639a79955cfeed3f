package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/providers"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
	apperrors "github.com/savoraeats/savora-backend/pkg/errors"
	"github.com/savoraeats/savora-backend/pkg/geo"
)

// Cache TTLs (in seconds)
const (
	radiusResultTTL   = 900
	distanceResultTTL = 86400
)

// ProximityService resolves radius searches: which restaurants sit
// within a [min,max] km driving-distance band of a point. Results are
// cached per fingerprint so each unique rounded origin and band costs
// at most one routing-matrix call while the entry lives.
type ProximityService struct {
	restaurantRepo repositories.RestaurantRepository
	cache          providers.CacheProvider
	routing        providers.RoutingProvider
	matrixTimeout  time.Duration
}

// NewProximityService creates a new proximity service
func NewProximityService(
	restaurantRepo repositories.RestaurantRepository,
	cache providers.CacheProvider,
	routing providers.RoutingProvider,
	matrixTimeout time.Duration,
) *ProximityService {
	if matrixTimeout <= 0 {
		matrixTimeout = 8 * time.Second
	}
	return &ProximityService{
		restaurantRepo: restaurantRepo,
		cache:          cache,
		routing:        routing,
		matrixTimeout:  matrixTimeout,
	}
}

// FindWithinRadius returns every restaurant whose driving distance
// from the center lies in [minRadiusKm, maxRadiusKm], ascending by
// distance. An inverted band yields an empty result without touching
// the provider.
func (s *ProximityService) FindWithinRadius(ctx context.Context, center entities.GeoPoint, minRadiusKm, maxRadiusKm float64) ([]entities.ProximityResult, error) {
	if minRadiusKm > maxRadiusKm {
		return []entities.ProximityResult{}, nil
	}

	lat := geo.Round(center.Latitude, geo.RadiusKeyDigits)
	lon := geo.Round(center.Longitude, geo.RadiusKeyDigits)
	fingerprint := geo.RadiusFingerprint(lat, lon, minRadiusKm, maxRadiusKm)

	if cached, err := s.cache.Get(ctx, fingerprint); err == nil {
		var results []entities.ProximityResult
		if err := json.Unmarshal(cached, &results); err == nil {
			return results, nil
		}
		log.Warn().Str("fingerprint", fingerprint).Msg("Failed to unmarshal cached proximity results")
	}

	candidates, err := s.candidates(ctx, center, minRadiusKm, maxRadiusKm)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		results := []entities.ProximityResult{}
		s.store(ctx, fingerprint, results)
		return results, nil
	}

	destinations := make([]entities.GeoPoint, len(candidates))
	for i, c := range candidates {
		destinations[i] = c.Location
	}

	matrixCtx, cancel := context.WithTimeout(ctx, s.matrixTimeout)
	defer cancel()

	matrix, err := s.routing.Matrix(matrixCtx, center, destinations)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(matrixCtx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError("routing matrix call timed out", err)
		}
		return nil, apperrors.NewExternalError("routing provider unavailable", err)
	}
	if len(matrix.Distances) != len(candidates) || len(matrix.Durations) != len(candidates) {
		return nil, apperrors.NewExternalError("routing matrix returned mismatched row length", nil)
	}

	results := make([]entities.ProximityResult, 0, len(candidates))
	for i, c := range candidates {
		distanceKm := matrix.Distances[i] / 1000
		if distanceKm < minRadiusKm || distanceKm > maxRadiusKm {
			continue
		}
		results = append(results, entities.ProximityResult{
			RestaurantID:    c.ID,
			DistanceKm:      distanceKm,
			DurationMinutes: matrix.Durations[i] / 60,
		})
	}

	// Stable so equidistant candidates keep their original order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	s.store(ctx, fingerprint, results)
	return results, nil
}

// candidates runs the broad-phase geofilter: an index-backed bounding
// box around the center for the outer radius, minus everything already
// inside the inner radius when the band has a floor. The exact band
// check happens later against real driving distances.
func (s *ProximityService) candidates(ctx context.Context, center entities.GeoPoint, minRadiusKm, maxRadiusKm float64) ([]repositories.RestaurantPosition, error) {
	minLat, minLon, maxLat, maxLon := geo.BoundAround(center.Latitude, center.Longitude, maxRadiusKm)
	positions, err := s.restaurantRepo.ListPositionsWithinBound(ctx, minLat, minLon, maxLat, maxLon)
	if err != nil {
		return nil, err
	}

	if minRadiusKm <= 0 {
		return positions, nil
	}

	kept := make([]repositories.RestaurantPosition, 0, len(positions))
	for _, p := range positions {
		straightLine := geo.HaversineKm(center.Latitude, center.Longitude, p.Location.Latitude, p.Location.Longitude)
		// The band floor cuts on the straight-line metric, mirroring
		// the inner-radius set difference of the cached band shape.
		if straightLine < minRadiusKm {
			continue
		}
		kept = append(kept, p)
	}

	return kept, nil
}

// store writes the resolved band under its fingerprint. SetNX keeps
// the first writer when concurrent resolvers race on the same
// fingerprint; the loser's payload is discarded.
func (s *ProximityService) store(ctx context.Context, fingerprint string, results []entities.ProximityResult) {
	data, err := json.Marshal(results)
	if err != nil {
		log.Warn().Err(err).Str("fingerprint", fingerprint).Msg("Failed to marshal proximity results")
		return
	}
	if _, err := s.cache.SetNX(ctx, fingerprint, data, radiusResultTTL); err != nil {
		log.Warn().Err(err).Str("fingerprint", fingerprint).Msg("Failed to cache proximity results")
	}
}

// DistanceBetween resolves the pairwise driving distance between a
// restaurant and a user position, cached under the pairwise
// fingerprint.
func (s *ProximityService) DistanceBetween(ctx context.Context, restaurant, user entities.GeoPoint) (*entities.DistanceResult, error) {
	fingerprint := geo.DistanceFingerprint(restaurant.Latitude, restaurant.Longitude, user.Latitude, user.Longitude)

	if cached, err := s.cache.Get(ctx, fingerprint); err == nil {
		var result entities.DistanceResult
		if err := json.Unmarshal(cached, &result); err == nil {
			return &result, nil
		}
		log.Warn().Str("fingerprint", fingerprint).Msg("Failed to unmarshal cached distance result")
	}

	matrixCtx, cancel := context.WithTimeout(ctx, s.matrixTimeout)
	defer cancel()

	matrix, err := s.routing.Matrix(matrixCtx, user, []entities.GeoPoint{restaurant})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(matrixCtx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError("routing matrix call timed out", err)
		}
		return nil, apperrors.NewExternalError("routing provider unavailable", err)
	}
	if len(matrix.Distances) != 1 || len(matrix.Durations) != 1 {
		return nil, apperrors.NewExternalError("routing matrix returned mismatched row length", nil)
	}

	result := &entities.DistanceResult{
		DistanceKm:      matrix.Distances[0] / 1000,
		DurationMinutes: matrix.Durations[0] / 60,
	}

	if data, err := json.Marshal(result); err == nil {
		if _, err := s.cache.SetNX(ctx, fingerprint, data, distanceResultTTL); err != nil {
			log.Warn().Err(err).Str("fingerprint", fingerprint).Msg("Failed to cache distance result")
		}
	}

	return result, nil
}
