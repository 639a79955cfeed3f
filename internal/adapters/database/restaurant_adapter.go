package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
	"github.com/savoraeats/savora-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/savoraeats/savora-backend/pkg/errors"
)

var restaurantColumns = []interface{}{
	"id", "brand_id", "name", "street_address", "city", "state", "zip_code",
	"latitude", "longitude", "rating", "number_of_ratings", "reviews",
	"food_type", "cuisines", "mode_supported", "dining_categories", "popular_dishes",
	"avg_cost_for_two", "avg_cost_for_four", "images", "main_image",
	"menu_image_link", "dining_terms", "is_active", "created_at", "updated_at",
}

// RestaurantAdapter implements the RestaurantRepository interface
type RestaurantAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewRestaurantAdapter creates a new restaurant adapter
func NewRestaurantAdapter(client *postgres.Client) repositories.RestaurantRepository {
	return &RestaurantAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func restaurantRecord(r *entities.Restaurant) goqu.Record {
	return goqu.Record{
		"id":                r.ID,
		"brand_id":          r.BrandID,
		"name":              r.Name,
		"street_address":    r.Address.StreetAddress,
		"city":              r.Address.City,
		"state":             r.Address.State,
		"zip_code":          r.Address.ZipCode,
		"latitude":          r.Location.Latitude,
		"longitude":         r.Location.Longitude,
		"rating":            r.Rating,
		"number_of_ratings": r.NumberOfRatings,
		"reviews":           r.Reviews,
		"food_type":         pq.Array(r.FoodType),
		"cuisines":          pq.Array(r.Cuisines),
		"mode_supported":    pq.Array(r.ModeSupported),
		"dining_categories": pq.Array(r.DiningCategories),
		"popular_dishes":    pq.Array(r.PopularDishes),
		"avg_cost_for_two":  r.AvgCostForTwo,
		"avg_cost_for_four": r.AvgCostForFour,
		"images":            pq.Array(r.Images),
		"main_image":        r.MainImage,
		"menu_image_link":   r.MenuImageLink,
		"dining_terms":      r.DiningTerms,
		"is_active":         r.IsActive,
		"created_at":        r.CreatedAt,
		"updated_at":        r.UpdatedAt,
	}
}

func scanRestaurant(row interface {
	Scan(dest ...interface{}) error
}) (*entities.Restaurant, error) {
	r := &entities.Restaurant{}
	err := row.Scan(
		&r.ID,
		&r.BrandID,
		&r.Name,
		&r.Address.StreetAddress,
		&r.Address.City,
		&r.Address.State,
		&r.Address.ZipCode,
		&r.Location.Latitude,
		&r.Location.Longitude,
		&r.Rating,
		&r.NumberOfRatings,
		&r.Reviews,
		pq.Array(&r.FoodType),
		pq.Array(&r.Cuisines),
		pq.Array(&r.ModeSupported),
		pq.Array(&r.DiningCategories),
		pq.Array(&r.PopularDishes),
		&r.AvgCostForTwo,
		&r.AvgCostForFour,
		pq.Array(&r.Images),
		&r.MainImage,
		&r.MenuImageLink,
		&r.DiningTerms,
		&r.IsActive,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Create creates a new restaurant
func (a *RestaurantAdapter) Create(ctx context.Context, restaurant *entities.Restaurant) error {
	query, args, err := a.db.Insert("restaurants").Rows(restaurantRecord(restaurant)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create restaurant", err)
	}

	return nil
}

// GetByID retrieves a restaurant by ID
func (a *RestaurantAdapter) GetByID(ctx context.Context, id string) (*entities.Restaurant, error) {
	query, args, err := a.db.Select(restaurantColumns...).
		From("restaurants").
		Where(goqu.Ex{"id": id, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	restaurant, err := scanRestaurant(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("restaurant with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get restaurant", err)
	}

	return restaurant, nil
}

// GetByIDs retrieves all restaurants with the given IDs
func (a *RestaurantAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Restaurant, error) {
	if len(ids) == 0 {
		return []*entities.Restaurant{}, nil
	}

	query, args, err := a.db.Select(restaurantColumns...).
		From("restaurants").
		Where(goqu.Ex{"id": ids, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list restaurants", err)
	}
	defer rows.Close()

	restaurants := []*entities.Restaurant{}
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan restaurant", err)
		}
		restaurants = append(restaurants, restaurant)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate restaurants", err)
	}

	return restaurants, nil
}

// Update updates a restaurant
func (a *RestaurantAdapter) Update(ctx context.Context, restaurant *entities.Restaurant) error {
	restaurant.UpdatedAt = time.Now()

	record := restaurantRecord(restaurant)
	delete(record, "id")
	delete(record, "created_at")

	query, args, err := a.db.Update("restaurants").
		Set(record).
		Where(goqu.Ex{"id": restaurant.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update restaurant", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check update result", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("restaurant with id %s not found", restaurant.ID))
	}

	return nil
}

// Delete soft-deletes a restaurant
func (a *RestaurantAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Update("restaurants").
		Set(goqu.Record{
			"is_active":  false,
			"updated_at": time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete restaurant", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check delete result", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("restaurant with id %s not found", id))
	}

	return nil
}

// List lists restaurants with optional filters
func (a *RestaurantAdapter) List(ctx context.Context, filter repositories.RestaurantFilter) ([]*entities.Restaurant, error) {
	ds := a.db.Select(restaurantColumns...).
		From("restaurants").
		Where(goqu.Ex{"is_active": true})

	if filter.City != "" {
		ds = ds.Where(goqu.Ex{"city": filter.City})
	}
	if filter.FoodType != "" {
		ds = ds.Where(goqu.L("? = ANY(food_type)", filter.FoodType))
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.Order(goqu.I("created_at").Desc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list restaurants", err)
	}
	defer rows.Close()

	restaurants := []*entities.Restaurant{}
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan restaurant", err)
		}
		restaurants = append(restaurants, restaurant)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate restaurants", err)
	}

	return restaurants, nil
}

// ListPositions returns every active restaurant's position
func (a *RestaurantAdapter) ListPositions(ctx context.Context) ([]repositories.RestaurantPosition, error) {
	query, args, err := a.db.Select("id", "latitude", "longitude").
		From("restaurants").
		Where(goqu.Ex{"is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryPositions(ctx, query, args)
}

// ListPositionsWithinBound returns positions inside a bounding box
func (a *RestaurantAdapter) ListPositionsWithinBound(ctx context.Context, minLat, minLon, maxLat, maxLon float64) ([]repositories.RestaurantPosition, error) {
	query, args, err := a.db.Select("id", "latitude", "longitude").
		From("restaurants").
		Where(
			goqu.Ex{"is_active": true},
			goqu.C("latitude").Between(goqu.Range(minLat, maxLat)),
			goqu.C("longitude").Between(goqu.Range(minLon, maxLon)),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryPositions(ctx, query, args)
}

func (a *RestaurantAdapter) queryPositions(ctx context.Context, query string, args []interface{}) ([]repositories.RestaurantPosition, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list restaurant positions", err)
	}
	defer rows.Close()

	positions := []repositories.RestaurantPosition{}
	for rows.Next() {
		var p repositories.RestaurantPosition
		if err := rows.Scan(&p.ID, &p.Location.Latitude, &p.Location.Longitude); err != nil {
			return nil, apperrors.NewInternalError("failed to scan restaurant position", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate restaurant positions", err)
	}

	return positions, nil
}

// SuggestByNameOrCuisine returns restaurants among the given IDs whose
// name contains the query or whose cuisines start with it
func (a *RestaurantAdapter) SuggestByNameOrCuisine(ctx context.Context, search string, ids []string, limit int) ([]*entities.Restaurant, error) {
	if len(ids) == 0 {
		return []*entities.Restaurant{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	query, args, err := a.db.Select(restaurantColumns...).
		From("restaurants").
		Where(
			goqu.Ex{"id": ids, "is_active": true},
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

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search restaurants", err)
	}
	defer rows.Close()

	restaurants := []*entities.Restaurant{}
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan restaurant", err)
		}
		restaurants = append(restaurants, restaurant)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate restaurants", err)
	}

	return restaurants, nil
}
