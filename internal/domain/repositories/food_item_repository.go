package repositories

import (
	"context"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
)

// FoodItemRepository defines persistence operations for food items
type FoodItemRepository interface {
	Create(ctx context.Context, item *entities.FoodItem) error
	GetByID(ctx context.Context, id string) (*entities.FoodItem, error)
	Update(ctx context.Context, item *entities.FoodItem) error
	Delete(ctx context.Context, id string) error

	// ListByRestaurant returns every item on one restaurant's menu
	ListByRestaurant(ctx context.Context, restaurantID string) ([]*entities.FoodItem, error)

	// ListByRestaurants returns the items of all given restaurants
	ListByRestaurants(ctx context.Context, restaurantIDs []string) ([]*entities.FoodItem, error)

	// SuggestByNameOrCuisine returns food items of the given
	// restaurants whose name contains the query or whose cuisines
	// start with it.
	SuggestByNameOrCuisine(ctx context.Context, query string, restaurantIDs []string, limit int) ([]*entities.FoodItem, error)
}
