package repositories

import (
	"context"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
)

// RestaurantSearchRepository is the optional search-engine index for
// suggestion queries. When unavailable the search service falls back
// to database prefix matching.
type RestaurantSearchRepository interface {
	InitSchema(ctx context.Context) error
	Index(ctx context.Context, restaurant *entities.Restaurant) error
	Delete(ctx context.Context, id string) error

	// Suggest returns restaurants among the given IDs matching the
	// query against name or cuisines.
	Suggest(ctx context.Context, query string, ids []string, limit int) ([]entities.RestaurantSuggestion, error)
}
