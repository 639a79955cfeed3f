package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
)

// FoodItemService handles food item writes and menu reads
type FoodItemService struct {
	repo repositories.FoodItemRepository
}

// NewFoodItemService creates a new food item service
func NewFoodItemService(repo repositories.FoodItemRepository) *FoodItemService {
	return &FoodItemService{repo: repo}
}

// Create creates a new food item
func (s *FoodItemService) Create(ctx context.Context, item *entities.FoodItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	return s.repo.Create(ctx, item)
}

// GetByID retrieves a food item by ID
func (s *FoodItemService) GetByID(ctx context.Context, id string) (*entities.FoodItem, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByRestaurant returns a restaurant's menu
func (s *FoodItemService) ListByRestaurant(ctx context.Context, restaurantID string) ([]*entities.FoodItem, error) {
	return s.repo.ListByRestaurant(ctx, restaurantID)
}

// Update updates a food item
func (s *FoodItemService) Update(ctx context.Context, item *entities.FoodItem) error {
	return s.repo.Update(ctx, item)
}

// Delete deletes a food item
func (s *FoodItemService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
