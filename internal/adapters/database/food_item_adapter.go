package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
	"github.com/savoraeats/savora-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/savoraeats/savora-backend/pkg/errors"
)

var foodItemColumns = []interface{}{
	"id", "restaurant_id", "name", "type", "rating", "number_of_ratings",
	"reviews", "actual_cost", "discounted_cost", "details", "status",
	"images", "main_image", "cuisines", "category", "bestseller", "dietary",
	"created_at", "updated_at",
}

// FoodItemAdapter implements the FoodItemRepository interface
type FoodItemAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFoodItemAdapter creates a new food item adapter
func NewFoodItemAdapter(client *postgres.Client) repositories.FoodItemRepository {
	return &FoodItemAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func foodItemRecord(f *entities.FoodItem) goqu.Record {
	return goqu.Record{
		"id":                f.ID,
		"restaurant_id":     f.RestaurantID,
		"name":              f.Name,
		"type":              f.Type,
		"rating":            f.Rating,
		"number_of_ratings": f.NumberOfRatings,
		"reviews":           f.Reviews,
		"actual_cost":       f.ActualCost,
		"discounted_cost":   f.DiscountedCost,
		"details":           f.Details,
		"status":            f.Status,
		"images":            pq.Array(f.Images),
		"main_image":        f.MainImage,
		"cuisines":          pq.Array(f.Cuisines),
		"category":          f.Category,
		"bestseller":        f.Bestseller,
		"dietary":           pq.Array(f.Dietary),
		"created_at":        f.CreatedAt,
		"updated_at":        f.UpdatedAt,
	}
}

func scanFoodItem(row interface {
	Scan(dest ...interface{}) error
}) (*entities.FoodItem, error) {
	f := &entities.FoodItem{}
	err := row.Scan(
		&f.ID,
		&f.RestaurantID,
		&f.Name,
		&f.Type,
		&f.Rating,
		&f.NumberOfRatings,
		&f.Reviews,
		&f.ActualCost,
		&f.DiscountedCost,
		&f.Details,
		&f.Status,
		pq.Array(&f.Images),
		&f.MainImage,
		pq.Array(&f.Cuisines),
		&f.Category,
		&f.Bestseller,
		pq.Array(&f.Dietary),
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (a *FoodItemAdapter) queryItems(ctx context.Context, query string, args []interface{}) ([]*entities.FoodItem, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list food items", err)
	}
	defer rows.Close()

	items := []*entities.FoodItem{}
	for rows.Next() {
		item, err := scanFoodItem(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan food item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate food items", err)
	}

	return items, nil
}

// Create creates a new food item
func (a *FoodItemAdapter) Create(ctx context.Context, item *entities.FoodItem) error {
	query, args, err := a.db.Insert("food_items").Rows(foodItemRecord(item)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create food item", err)
	}

	return nil
}

// GetByID retrieves a food item by ID
func (a *FoodItemAdapter) GetByID(ctx context.Context, id string) (*entities.FoodItem, error) {
	query, args, err := a.db.Select(foodItemColumns...).
		From("food_items").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	item, err := scanFoodItem(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("food item with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get food item", err)
	}

	return item, nil
}

// Update updates a food item
func (a *FoodItemAdapter) Update(ctx context.Context, item *entities.FoodItem) error {
	item.UpdatedAt = time.Now()

	record := foodItemRecord(item)
	delete(record, "id")
	delete(record, "created_at")

	query, args, err := a.db.Update("food_items").
		Set(record).
		Where(goqu.Ex{"id": item.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update food item", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check update result", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("food item with id %s not found", item.ID))
	}

	return nil
}

// Delete deletes a food item
func (a *FoodItemAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("food_items").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete food item", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check delete result", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("food item with id %s not found", id))
	}

	return nil
}

// ListByRestaurant returns every item on one restaurant's menu
func (a *FoodItemAdapter) ListByRestaurant(ctx context.Context, restaurantID string) ([]*entities.FoodItem, error) {
	query, args, err := a.db.Select(foodItemColumns...).
		From("food_items").
		Where(goqu.Ex{"restaurant_id": restaurantID}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryItems(ctx, query, args)
}

// ListByRestaurants returns the items of all given restaurants
func (a *FoodItemAdapter) ListByRestaurants(ctx context.Context, restaurantIDs []string) ([]*entities.FoodItem, error) {
	if len(restaurantIDs) == 0 {
		return []*entities.FoodItem{}, nil
	}

	query, args, err := a.db.Select(foodItemColumns...).
		From("food_items").
		Where(goqu.Ex{"restaurant_id": restaurantIDs}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryItems(ctx, query, args)
}

// SuggestByNameOrCuisine returns food items of the given restaurants
// whose name contains the query or whose cuisines start with it
func (a *FoodItemAdapter) SuggestByNameOrCuisine(ctx context.Context, search string, restaurantIDs []string, limit int) ([]*entities.FoodItem, error) {
	if len(restaurantIDs) == 0 {
		return []*entities.FoodItem{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	query, args, err := a.db.Select(foodItemColumns...).
		From("food_items").
		Where(
			goqu.Ex{"restaurant_id": restaurantIDs},
			goqu.Or(
				goqu.C("name").ILike("%"+search+"%"),
				goqu.L("EXISTS (SELECT 1 FROM unnest(cuisines) AS c WHERE c ILIKE ?)", search+"%"),
			),
		).
		Order(goqu.I("rating").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryItems(ctx, query, args)
}
