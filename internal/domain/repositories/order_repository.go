package repositories

import (
	"context"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
)

// OrderRepository exposes the order reads the discovery path needs
type OrderRepository interface {
	// PopularityStats aggregates order volume per restaurant for the
	// given set of restaurants.
	PopularityStats(ctx context.Context, restaurantIDs []string) ([]entities.PopularityStat, error)
}
