package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/providers"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
)

// RestaurantDetail is the full detail payload: the restaurant, its
// menu grouped by category, and the resolved distance from the
// caller's position when one was supplied.
type RestaurantDetail struct {
	Restaurant      *entities.Restaurant            `json:"restaurant"`
	ItemsByCategory map[string][]*entities.FoodItem `json:"itemsByCategory"`
	Distance        *entities.DistanceResult        `json:"distance,omitempty"`
}

// RestaurantService handles restaurant writes and detail reads. Every
// write publishes a restaurant event so cached geo results that may
// reference the restaurant get invalidated.
type RestaurantService struct {
	repo       repositories.RestaurantRepository
	foodItems  repositories.FoodItemRepository
	searchRepo repositories.RestaurantSearchRepository
	proximity  *ProximityService
	eventBus   providers.EventBus
}

// NewRestaurantService creates a new restaurant service
func NewRestaurantService(
	repo repositories.RestaurantRepository,
	foodItems repositories.FoodItemRepository,
	searchRepo repositories.RestaurantSearchRepository,
	proximity *ProximityService,
	eventBus providers.EventBus,
) *RestaurantService {
	return &RestaurantService{
		repo:       repo,
		foodItems:  foodItems,
		searchRepo: searchRepo,
		proximity:  proximity,
		eventBus:   eventBus,
	}
}

// Create creates a new restaurant, indexes it and announces the change
func (s *RestaurantService) Create(ctx context.Context, restaurant *entities.Restaurant) error {
	if restaurant.ID == "" {
		restaurant.ID = uuid.NewString()
	}
	now := time.Now()
	restaurant.CreatedAt = now
	restaurant.UpdatedAt = now
	restaurant.IsActive = true

	if err := s.repo.Create(ctx, restaurant); err != nil {
		return err
	}

	s.index(ctx, restaurant)
	s.publish(ctx, restaurant.ID, entities.RestaurantEventCreated)
	return nil
}

// GetByID retrieves a restaurant by ID
func (s *RestaurantService) GetByID(ctx context.Context, id string) (*entities.Restaurant, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists restaurants with optional filters
func (s *RestaurantService) List(ctx context.Context, filter repositories.RestaurantFilter) ([]*entities.Restaurant, error) {
	return s.repo.List(ctx, filter)
}

// Update updates a restaurant, reindexes it and announces the change
func (s *RestaurantService) Update(ctx context.Context, restaurant *entities.Restaurant) error {
	if err := s.repo.Update(ctx, restaurant); err != nil {
		return err
	}

	s.index(ctx, restaurant)
	s.publish(ctx, restaurant.ID, entities.RestaurantEventUpdated)
	return nil
}

// Delete removes a restaurant, drops it from the index and announces
// the change
func (s *RestaurantService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Delete(ctx, id); err != nil {
			log.Warn().Err(err).Str("restaurant_id", id).Msg("Failed to delete restaurant from search index")
		}
	}
	s.publish(ctx, id, entities.RestaurantEventDeleted)
	return nil
}

// GetDetail returns the restaurant with its menu grouped by category
// and, when the caller supplied a position, the driving distance to it.
func (s *RestaurantService) GetDetail(ctx context.Context, id string, user *entities.GeoPoint) (*RestaurantDetail, error) {
	restaurant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.foodItems.ListByRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]*entities.FoodItem)
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = "Other"
		}
		grouped[category] = append(grouped[category], item)
	}

	detail := &RestaurantDetail{
		Restaurant:      restaurant,
		ItemsByCategory: grouped,
	}

	if user != nil {
		distance, err := s.proximity.DistanceBetween(ctx, restaurant.Location, *user)
		if err != nil {
			// Detail still renders without a distance
			log.Warn().Err(err).Str("restaurant_id", id).Msg("Failed to resolve restaurant distance")
		} else {
			detail.Distance = distance
		}
	}

	return detail, nil
}

// index upserts the restaurant into the search engine, tolerating
// index unavailability (eventual consistency).
func (s *RestaurantService) index(ctx context.Context, restaurant *entities.Restaurant) {
	if s.searchRepo == nil {
		return
	}
	if err := s.searchRepo.Index(ctx, restaurant); err != nil {
		log.Warn().Err(err).Str("restaurant_id", restaurant.ID).Msg("Failed to index restaurant")
	}
}

func (s *RestaurantService) publish(ctx context.Context, restaurantID, eventType string) {
	if s.eventBus == nil {
		return
	}
	event := &entities.RestaurantEvent{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		EventType:    eventType,
		Timestamp:    time.Now(),
	}
	if err := s.eventBus.Publish(ctx, providers.EventChannelRestaurantUpdates, event); err != nil {
		log.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("Failed to publish restaurant event")
	}
}
