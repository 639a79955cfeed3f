package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
	tsclient "github.com/savoraeats/savora-backend/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements the RestaurantSearchRepository interface
type TypesenseAdapter struct {
	client *tsclient.Client
}

// NewTypesenseAdapter creates a new Typesense search adapter
func NewTypesenseAdapter(client *tsclient.Client) repositories.RestaurantSearchRepository {
	return &TypesenseAdapter{
		client: client,
	}
}

// InitSchema ensures the restaurants collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	return a.client.InitSchema(ctx)
}

// Index indexes a restaurant
func (a *TypesenseAdapter) Index(ctx context.Context, restaurant *entities.Restaurant) error {
	document := map[string]interface{}{
		"id":                restaurant.ID,
		"name":              restaurant.Name,
		"cuisines":          restaurant.Cuisines,
		"food_type":         restaurant.FoodType,
		"is_active":         restaurant.IsActive,
		"location":          []float64{restaurant.Location.Latitude, restaurant.Location.Longitude},
		"rating":            restaurant.Rating,
		"number_of_ratings": restaurant.NumberOfRatings,
		"created_at":        restaurant.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(tsclient.RestaurantsCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index restaurant: %w", err)
	}

	return nil
}

// Delete removes a restaurant from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.RestaurantsCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete restaurant from index: %w", err)
	}
	return nil
}

// Suggest returns restaurants among the given IDs matching the query
// against name or cuisines
func (a *TypesenseAdapter) Suggest(ctx context.Context, query string, ids []string, limit int) ([]entities.RestaurantSuggestion, error) {
	if len(ids) == 0 {
		return []entities.RestaurantSuggestion{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String("name,cuisines"),
		FilterBy: pointer.String(fmt.Sprintf("is_active:=true && id:=[%s]", strings.Join(ids, ","))),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.RestaurantsCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search restaurants: %w", err)
	}

	suggestions := []entities.RestaurantSuggestion{}
	if result.Hits == nil {
		return suggestions, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document

		suggestion := entities.RestaurantSuggestion{}
		if val, ok := doc["id"].(string); ok {
			suggestion.ID = val
		}
		if val, ok := doc["name"].(string); ok {
			suggestion.Name = val
		}
		if val, ok := doc["rating"].(float64); ok {
			suggestion.Rating = val
		}
		if val, ok := doc["number_of_ratings"].(float64); ok {
			suggestion.NumberOfRatings = int(val)
		}
		if raw, ok := doc["cuisines"].([]interface{}); ok {
			cuisines := make([]string, 0, len(raw))
			for _, c := range raw {
				if s, ok := c.(string); ok {
					cuisines = append(cuisines, s)
				}
			}
			suggestion.Cuisines = cuisines
		}

		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}
