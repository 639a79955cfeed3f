package repositories

import (
	"context"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
)

// VideoRepository defines persistence operations for videos
type VideoRepository interface {
	Create(ctx context.Context, video *entities.Video) error

	// ListForRestaurant returns dining-type videos of a restaurant
	ListForRestaurant(ctx context.Context, restaurantID string) ([]*entities.Video, error)

	// ListForFoodItem returns delivery-type videos of a food item
	ListForFoodItem(ctx context.Context, foodItemID string) ([]*entities.Video, error)

	// LikedVideoIDs returns the IDs of videos the user has liked
	LikedVideoIDs(ctx context.Context, userID string) ([]string, error)
}
