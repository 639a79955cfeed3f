package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
	"github.com/savoraeats/savora-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/savoraeats/savora-backend/pkg/errors"
)

var videoColumns = []interface{}{
	"id", "restaurant_id", "food_item_id", "name", "link", "type",
	"likes", "comments", "cta_text",
}

// VideoAdapter implements the VideoRepository interface
type VideoAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewVideoAdapter creates a new video adapter
func NewVideoAdapter(client *postgres.Client) repositories.VideoRepository {
	return &VideoAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func (a *VideoAdapter) queryVideos(ctx context.Context, query string, args []interface{}) ([]*entities.Video, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list videos", err)
	}
	defer rows.Close()

	videos := []*entities.Video{}
	for rows.Next() {
		v := &entities.Video{}
		err := rows.Scan(
			&v.ID,
			&v.RestaurantID,
			&v.FoodItemID,
			&v.Name,
			&v.Link,
			&v.Type,
			&v.Likes,
			&v.Comments,
			&v.CTAText,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan video", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate videos", err)
	}

	return videos, nil
}

// Create creates a new video
func (a *VideoAdapter) Create(ctx context.Context, video *entities.Video) error {
	record := goqu.Record{
		"id":            video.ID,
		"restaurant_id": video.RestaurantID,
		"food_item_id":  video.FoodItemID,
		"name":          video.Name,
		"link":          video.Link,
		"type":          video.Type,
		"likes":         video.Likes,
		"comments":      video.Comments,
		"cta_text":      video.CTAText,
	}

	query, args, err := a.db.Insert("videos").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create video", err)
	}

	return nil
}

// ListForRestaurant returns dining-type videos of a restaurant
func (a *VideoAdapter) ListForRestaurant(ctx context.Context, restaurantID string) ([]*entities.Video, error) {
	query, args, err := a.db.Select(videoColumns...).
		From("videos").
		Where(goqu.Ex{
			"restaurant_id": restaurantID,
			"type":          entities.VideoTypeDining,
		}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryVideos(ctx, query, args)
}

// ListForFoodItem returns delivery-type videos of a food item
func (a *VideoAdapter) ListForFoodItem(ctx context.Context, foodItemID string) ([]*entities.Video, error) {
	query, args, err := a.db.Select(videoColumns...).
		From("videos").
		Where(goqu.Ex{
			"food_item_id": foodItemID,
			"type":         entities.VideoTypeDelivery,
		}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryVideos(ctx, query, args)
}

// LikedVideoIDs returns the IDs of videos the user has liked
func (a *VideoAdapter) LikedVideoIDs(ctx context.Context, userID string) ([]string, error) {
	query, args, err := a.db.Select("video_id").
		From("user_video_likes").
		Where(goqu.Ex{"user_id": userID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list liked videos", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewInternalError("failed to scan liked video id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate liked videos", err)
	}

	return ids, nil
}
