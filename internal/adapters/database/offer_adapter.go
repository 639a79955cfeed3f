package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
	"github.com/savoraeats/savora-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/savoraeats/savora-backend/pkg/errors"
)

var offerColumns = []interface{}{
	"id", "type", "restaurant_id", "food_item_id", "description",
	"image_link", "conditions", "start_date", "end_date", "status", "amount",
}

// OfferAdapter implements the OfferRepository interface
type OfferAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewOfferAdapter creates a new offer adapter
func NewOfferAdapter(client *postgres.Client) repositories.OfferRepository {
	return &OfferAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func (a *OfferAdapter) queryOffers(ctx context.Context, query string, args []interface{}) ([]*entities.Offer, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list offers", err)
	}
	defer rows.Close()

	offers := []*entities.Offer{}
	for rows.Next() {
		o := &entities.Offer{}
		err := rows.Scan(
			&o.ID,
			&o.Type,
			&o.RestaurantID,
			&o.FoodItemID,
			&o.Description,
			&o.ImageLink,
			pq.Array(&o.Conditions),
			&o.StartDate,
			&o.EndDate,
			&o.Status,
			&o.Amount,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan offer", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate offers", err)
	}

	return offers, nil
}

// Create creates a new offer
func (a *OfferAdapter) Create(ctx context.Context, offer *entities.Offer) error {
	record := goqu.Record{
		"id":            offer.ID,
		"type":          offer.Type,
		"restaurant_id": offer.RestaurantID,
		"food_item_id":  offer.FoodItemID,
		"description":   offer.Description,
		"image_link":    offer.ImageLink,
		"conditions":    pq.Array(offer.Conditions),
		"start_date":    offer.StartDate,
		"end_date":      offer.EndDate,
		"status":        offer.Status,
		"amount":        offer.Amount,
	}

	query, args, err := a.db.Insert("offers").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create offer", err)
	}

	return nil
}

// GetByIDs retrieves offers by IDs
func (a *OfferAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Offer, error) {
	if len(ids) == 0 {
		return []*entities.Offer{}, nil
	}

	query, args, err := a.db.Select(offerColumns...).
		From("offers").
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryOffers(ctx, query, args)
}

// ListForRestaurant returns restaurant-level offers
func (a *OfferAdapter) ListForRestaurant(ctx context.Context, restaurantID string) ([]*entities.Offer, error) {
	query, args, err := a.db.Select(offerColumns...).
		From("offers").
		Where(goqu.Ex{
			"restaurant_id": restaurantID,
			"type":          entities.OfferTypeRestaurant,
		}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryOffers(ctx, query, args)
}

// ListForFoodItem returns item-level offers
func (a *OfferAdapter) ListForFoodItem(ctx context.Context, foodItemID string) ([]*entities.Offer, error) {
	query, args, err := a.db.Select(offerColumns...).
		From("offers").
		Where(goqu.Ex{
			"food_item_id": foodItemID,
			"type":         entities.OfferTypeFoodItem,
		}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryOffers(ctx, query, args)
}
