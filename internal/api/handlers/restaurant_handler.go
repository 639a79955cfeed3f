package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/savoraeats/savora-backend/internal/application/services"
	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
)

// RestaurantHandler handles restaurant HTTP requests
type RestaurantHandler struct {
	restaurantService *services.RestaurantService
	discoveryService  *services.RestaurantDiscoveryService
}

// NewRestaurantHandler creates a new restaurant handler
func NewRestaurantHandler(
	restaurantService *services.RestaurantService,
	discoveryService *services.RestaurantDiscoveryService,
) *RestaurantHandler {
	return &RestaurantHandler{
		restaurantService: restaurantService,
		discoveryService:  discoveryService,
	}
}

func discoveryRequestFromQuery(r *http.Request, lat, lon float64) services.DiscoveryRequest {
	q := r.URL.Query()
	return services.DiscoveryRequest{
		Center:         entities.GeoPoint{Latitude: lat, Longitude: lon},
		MinRadius:      parseFloat(r, "minRadius", defaultMinRadiusKm),
		MaxRadius:      parseFloat(r, "maxRadius", defaultMaxRadiusKm),
		Sort:           q.Get("sort"),
		FoodType:       q.Get("foodType"),
		Cuisines:       q.Get("cuisines"),
		DiningCategory: q.Get("diningCategory"),
		MinRating:      parseFloat(r, "rating", 0),
		MinCostForTwo:  parseFloat(r, "minCostForTwo", 0),
		MaxCostForTwo:  parseFloat(r, "maxCostForTwo", 0),
	}
}

// ListDelivery handles GET /api/restaurants/delivery
func (h *RestaurantHandler) ListDelivery(w http.ResponseWriter, r *http.Request) {
	h.listByMode(w, r, entities.ModeDelivery)
}

// ListDining handles GET /api/restaurants/dining
func (h *RestaurantHandler) ListDining(w http.ResponseWriter, r *http.Request) {
	h.listByMode(w, r, entities.ModeDining)
}

func (h *RestaurantHandler) listByMode(w http.ResponseWriter, r *http.Request, mode string) {
	lat, lon, ok := parseRequiredCoords(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	restaurants, err := h.discoveryService.ListByMode(r.Context(), mode, discoveryRequestFromQuery(r, lat, lon))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "restaurants fetched successfully", restaurants)
}

// FindSimilar handles GET /api/restaurants/similar
func (h *RestaurantHandler) FindSimilar(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseRequiredCoords(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	restaurantID := r.URL.Query().Get("restaurantId")
	if restaurantID == "" {
		respondWithError(w, http.StatusBadRequest, "restaurantId is required")
		return
	}

	similar, err := h.discoveryService.FindSimilar(
		r.Context(),
		entities.GeoPoint{Latitude: lat, Longitude: lon},
		restaurantID,
		parseFloat(r, "minRadius", defaultMinRadiusKm),
		parseFloat(r, "maxRadius", defaultMaxRadiusKm),
	)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "similar restaurants fetched successfully", similar)
}

// FindPopular handles GET /api/restaurants/popular
func (h *RestaurantHandler) FindPopular(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseRequiredCoords(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	popular, err := h.discoveryService.FindPopular(
		r.Context(),
		entities.GeoPoint{Latitude: lat, Longitude: lon},
		parseFloat(r, "minRadius", defaultMinRadiusKm),
		parseFloat(r, "maxRadius", defaultMaxRadiusKm),
	)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "popular restaurants fetched successfully", popular)
}

// PopularCuisines handles GET /api/restaurants/cuisines/popular
func (h *RestaurantHandler) PopularCuisines(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseRequiredCoords(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	cuisines, err := h.discoveryService.PopularCuisines(
		r.Context(),
		entities.GeoPoint{Latitude: lat, Longitude: lon},
		parseFloat(r, "minRadius", defaultMinRadiusKm),
		parseFloat(r, "maxRadius", defaultMaxRadiusKm),
	)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "popular cuisines fetched successfully", cuisines)
}

// PopularCategories handles GET /api/restaurants/categories/popular
func (h *RestaurantHandler) PopularCategories(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseRequiredCoords(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	categories, err := h.discoveryService.PopularCategories(
		r.Context(),
		entities.GeoPoint{Latitude: lat, Longitude: lon},
		parseFloat(r, "minRadius", defaultMinRadiusKm),
		parseFloat(r, "maxRadius", defaultMaxRadiusKm),
	)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "popular dining categories fetched successfully", categories)
}

// PopularLocations handles GET /api/restaurants/locations/popular
func (h *RestaurantHandler) PopularLocations(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseRequiredCoords(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	locations, err := h.discoveryService.PopularLocations(
		r.Context(),
		entities.GeoPoint{Latitude: lat, Longitude: lon},
		parseFloat(r, "minRadius", defaultMinRadiusKm),
		parseFloat(r, "maxRadius", defaultMaxRadiusKm),
	)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "popular locations fetched successfully", locations)
}

// GetRestaurant handles GET /api/restaurants/{id}
func (h *RestaurantHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "restaurant ID is required")
		return
	}

	var user *entities.GeoPoint
	if lat, lon, ok := parseRequiredCoords(r); ok {
		user = &entities.GeoPoint{Latitude: lat, Longitude: lon}
	}

	detail, err := h.restaurantService.GetDetail(r.Context(), id, user)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "restaurant fetched successfully", detail)
}

// ListRestaurants handles GET /api/restaurants
func (h *RestaurantHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.RestaurantFilter{
		City:     q.Get("city"),
		FoodType: q.Get("foodType"),
		Limit:    30,
	}

	restaurants, err := h.restaurantService.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "restaurants fetched successfully", restaurants)
}

// GetOutlets handles GET /api/restaurants/{id}/outlets
func (h *RestaurantHandler) GetOutlets(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	lat, lon, ok := parseRequiredCoords(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	outlets, err := h.discoveryService.FindOutlets(r.Context(), id, entities.GeoPoint{Latitude: lat, Longitude: lon})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "outlets fetched successfully", outlets)
}

// UpdateRating handles POST /api/restaurants/{id}/rating
func (h *RestaurantHandler) UpdateRating(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var body struct {
		Rating float64 `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	restaurant, err := h.discoveryService.UpdateRating(r.Context(), id, body.Rating)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "rating updated successfully", restaurant)
}

// CreateRestaurant handles POST /api/restaurants
func (h *RestaurantHandler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var restaurant entities.Restaurant
	if err := json.NewDecoder(r.Body).Decode(&restaurant); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if restaurant.Name == "" {
		respondWithError(w, http.StatusBadRequest, "restaurant name is required")
		return
	}

	if err := h.restaurantService.Create(r.Context(), &restaurant); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, "restaurant created successfully", restaurant)
}

// UpdateRestaurant handles PATCH /api/restaurants/{id}
func (h *RestaurantHandler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.restaurantService.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(existing); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	existing.ID = id

	if err := h.restaurantService.Update(r.Context(), existing); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "restaurant updated successfully", existing)
}

// DeleteRestaurant handles DELETE /api/restaurants/{id}
func (h *RestaurantHandler) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.restaurantService.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "restaurant deleted successfully", nil)
}
