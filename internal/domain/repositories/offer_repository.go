package repositories

import (
	"context"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
)

// OfferRepository defines persistence operations for offers
type OfferRepository interface {
	Create(ctx context.Context, offer *entities.Offer) error
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Offer, error)

	// ListForRestaurant returns restaurant-level offers
	ListForRestaurant(ctx context.Context, restaurantID string) ([]*entities.Offer, error)

	// ListForFoodItem returns item-level offers
	ListForFoodItem(ctx context.Context, foodItemID string) ([]*entities.Offer, error)
}
