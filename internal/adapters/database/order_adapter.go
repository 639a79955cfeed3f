package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
	"github.com/savoraeats/savora-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/savoraeats/savora-backend/pkg/errors"
)

// OrderAdapter implements the OrderRepository interface
type OrderAdapter struct {
	db *sqlx.DB
}

// NewOrderAdapter creates a new order adapter
func NewOrderAdapter(client *postgres.Client) repositories.OrderRepository {
	return &OrderAdapter{
		db: sqlx.NewDb(client.DB(), "postgres"),
	}
}

// PopularityStats aggregates order volume per restaurant for the given
// set of restaurants. Restaurants without orders are simply absent
// from the result.
func (a *OrderAdapter) PopularityStats(ctx context.Context, restaurantIDs []string) ([]entities.PopularityStat, error) {
	if len(restaurantIDs) == 0 {
		return []entities.PopularityStat{}, nil
	}

	query := `
		SELECT restaurant_id,
		       COUNT(*)   AS total_orders,
		       SUM(total) AS total_amount
		FROM orders
		WHERE restaurant_id = ANY($1)
		GROUP BY restaurant_id
		ORDER BY total_orders DESC
	`

	stats := []entities.PopularityStat{}
	if err := a.db.SelectContext(ctx, &stats, query, pq.Array(restaurantIDs)); err != nil {
		return nil, apperrors.NewInternalError("failed to aggregate order stats", err)
	}

	return stats, nil
}
