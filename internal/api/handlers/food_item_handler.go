package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/savoraeats/savora-backend/internal/application/services"
	"github.com/savoraeats/savora-backend/internal/domain/entities"
)

// FoodItemHandler handles food item HTTP requests
type FoodItemHandler struct {
	foodItemService *services.FoodItemService
}

// NewFoodItemHandler creates a new food item handler
func NewFoodItemHandler(foodItemService *services.FoodItemService) *FoodItemHandler {
	return &FoodItemHandler{
		foodItemService: foodItemService,
	}
}

// CreateFoodItem handles POST /api/food-items
func (h *FoodItemHandler) CreateFoodItem(w http.ResponseWriter, r *http.Request) {
	var item entities.FoodItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if item.Name == "" || item.RestaurantID == "" {
		respondWithError(w, http.StatusBadRequest, "name and restaurantId are required")
		return
	}

	if err := h.foodItemService.Create(r.Context(), &item); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, "food item created successfully", item)
}

// GetFoodItem handles GET /api/food-items/{id}
func (h *FoodItemHandler) GetFoodItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	item, err := h.foodItemService.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "food item fetched successfully", item)
}

// ListMenu handles GET /api/restaurants/{id}/menu
func (h *FoodItemHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	restaurantID := r.PathValue("id")

	items, err := h.foodItemService.ListByRestaurant(r.Context(), restaurantID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "menu fetched successfully", items)
}

// UpdateFoodItem handles PATCH /api/food-items/{id}
func (h *FoodItemHandler) UpdateFoodItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.foodItemService.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(existing); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	existing.ID = id

	if err := h.foodItemService.Update(r.Context(), existing); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "food item updated successfully", existing)
}

// DeleteFoodItem handles DELETE /api/food-items/{id}
func (h *FoodItemHandler) DeleteFoodItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.foodItemService.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "food item deleted successfully", nil)
}
