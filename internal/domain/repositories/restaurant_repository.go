package repositories

import (
	"context"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
)

// RestaurantFilter holds optional list filters
type RestaurantFilter struct {
	City     string
	FoodType string
	Limit    int
	Offset   int
}

// RestaurantPosition is the slim projection used by the broad-phase
// geofilter: just enough to feed the routing matrix.
type RestaurantPosition struct {
	ID       string
	Location entities.GeoPoint
}

// RestaurantRepository defines persistence operations for restaurants
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *entities.Restaurant) error
	GetByID(ctx context.Context, id string) (*entities.Restaurant, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Restaurant, error)
	Update(ctx context.Context, restaurant *entities.Restaurant) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter RestaurantFilter) ([]*entities.Restaurant, error)

	// ListPositions returns every active restaurant's position
	ListPositions(ctx context.Context) ([]RestaurantPosition, error)

	// ListPositionsWithinBound returns positions inside a bounding box.
	// This is the index-backed broad phase that shrinks the candidate
	// set before the exact routing-matrix call.
	ListPositionsWithinBound(ctx context.Context, minLat, minLon, maxLat, maxLon float64) ([]RestaurantPosition, error)

	// SuggestByNameOrCuisine returns restaurants among the given IDs
	// whose name contains the query or whose cuisines start with it.
	SuggestByNameOrCuisine(ctx context.Context, query string, ids []string, limit int) ([]*entities.Restaurant, error)
}
