package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/providers"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
)

// CachedRestaurantAdapter wraps a RestaurantRepository with caching
// for the hot read path. Writes invalidate through before hitting the
// database result so stale entries never outlive an update.
type CachedRestaurantAdapter struct {
	adapter repositories.RestaurantRepository
	cache   providers.CacheProvider
}

// NewCachedRestaurantAdapter creates a new cached restaurant adapter
func NewCachedRestaurantAdapter(adapter repositories.RestaurantRepository, cache providers.CacheProvider) repositories.RestaurantRepository {
	return &CachedRestaurantAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	restaurantByIDTTL = 300
)

func restaurantCacheKey(id string) string {
	return fmt.Sprintf("restaurant:%s", id)
}

// Create creates a restaurant
func (a *CachedRestaurantAdapter) Create(ctx context.Context, restaurant *entities.Restaurant) error {
	return a.adapter.Create(ctx, restaurant)
}

// GetByID retrieves a restaurant by ID with caching
func (a *CachedRestaurantAdapter) GetByID(ctx context.Context, id string) (*entities.Restaurant, error) {
	cacheKey := restaurantCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var restaurant entities.Restaurant
		if err := json.Unmarshal(cached, &restaurant); err == nil {
			return &restaurant, nil
		}
		log.Warn().Str("restaurant_id", id).Msg("Failed to unmarshal cached restaurant")
	}

	restaurant, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(restaurant); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, restaurantByIDTTL); err != nil {
				log.Warn().Err(err).Str("restaurant_id", id).Msg("Failed to cache restaurant")
			}
		}
	}()

	return restaurant, nil
}

// GetByIDs retrieves multiple restaurants by IDs
func (a *CachedRestaurantAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Restaurant, error) {
	return a.adapter.GetByIDs(ctx, ids)
}

// Update updates a restaurant and invalidates its cache entry
func (a *CachedRestaurantAdapter) Update(ctx context.Context, restaurant *entities.Restaurant) error {
	if err := a.adapter.Update(ctx, restaurant); err != nil {
		return err
	}
	if err := a.cache.Delete(ctx, restaurantCacheKey(restaurant.ID)); err != nil {
		log.Warn().Err(err).Str("restaurant_id", restaurant.ID).Msg("Failed to invalidate restaurant cache")
	}
	return nil
}

// Delete deletes a restaurant and invalidates its cache entry
func (a *CachedRestaurantAdapter) Delete(ctx context.Context, id string) error {
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}
	if err := a.cache.Delete(ctx, restaurantCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("restaurant_id", id).Msg("Failed to invalidate restaurant cache")
	}
	return nil
}

// List lists restaurants with optional filters
func (a *CachedRestaurantAdapter) List(ctx context.Context, filter repositories.RestaurantFilter) ([]*entities.Restaurant, error) {
	return a.adapter.List(ctx, filter)
}

// ListPositions returns every active restaurant's position
func (a *CachedRestaurantAdapter) ListPositions(ctx context.Context) ([]repositories.RestaurantPosition, error) {
	return a.adapter.ListPositions(ctx)
}

// ListPositionsWithinBound returns positions inside a bounding box
func (a *CachedRestaurantAdapter) ListPositionsWithinBound(ctx context.Context, minLat, minLon, maxLat, maxLon float64) ([]repositories.RestaurantPosition, error) {
	return a.adapter.ListPositionsWithinBound(ctx, minLat, minLon, maxLat, maxLon)
}

// SuggestByNameOrCuisine returns matching restaurants among the given IDs
func (a *CachedRestaurantAdapter) SuggestByNameOrCuisine(ctx context.Context, query string, ids []string, limit int) ([]*entities.Restaurant, error) {
	return a.adapter.SuggestByNameOrCuisine(ctx, query, ids, limit)
}
