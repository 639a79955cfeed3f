package routes

import (
	"net/http"

	"github.com/savoraeats/savora-backend/internal/api/handlers"
	"github.com/savoraeats/savora-backend/internal/api/middleware"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	feedHandler       *handlers.FeedHandler
	restaurantHandler *handlers.RestaurantHandler
	foodItemHandler   *handlers.FoodItemHandler
	searchHandler     *handlers.SearchHandler
	orderHandler      *handlers.OrderHandler

	cacheMiddleware *middleware.CacheMiddleware
}

// NewRouter creates a new router
func NewRouter(
	feedHandler *handlers.FeedHandler,
	restaurantHandler *handlers.RestaurantHandler,
	foodItemHandler *handlers.FoodItemHandler,
	searchHandler *handlers.SearchHandler,
	orderHandler *handlers.OrderHandler,
	cacheMiddleware *middleware.CacheMiddleware,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		feedHandler:       feedHandler,
		restaurantHandler: restaurantHandler,
		foodItemHandler:   foodItemHandler,
		searchHandler:     searchHandler,
		orderHandler:      orderHandler,

		cacheMiddleware: cacheMiddleware,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Feed endpoint
	r.mux.HandleFunc("GET /api/feed", r.feedHandler.GetFeed)

	// Restaurant discovery endpoints
	r.mux.HandleFunc("GET /api/restaurants/delivery", r.restaurantHandler.ListDelivery)
	r.mux.HandleFunc("GET /api/restaurants/dining", r.restaurantHandler.ListDining)
	r.mux.HandleFunc("GET /api/restaurants/similar", r.restaurantHandler.FindSimilar)
	r.mux.HandleFunc("GET /api/restaurants/popular", r.restaurantHandler.FindPopular)
	r.mux.HandleFunc("GET /api/restaurants/cuisines/popular", r.restaurantHandler.PopularCuisines)
	r.mux.HandleFunc("GET /api/restaurants/categories/popular", r.restaurantHandler.PopularCategories)
	r.mux.HandleFunc("GET /api/restaurants/locations/popular", r.restaurantHandler.PopularLocations)

	// Restaurant entity endpoints
	r.mux.HandleFunc("GET /api/restaurants", r.restaurantHandler.ListRestaurants)
	r.mux.HandleFunc("POST /api/restaurants", r.restaurantHandler.CreateRestaurant)
	r.mux.HandleFunc("GET /api/restaurants/{id}", r.restaurantHandler.GetRestaurant)
	r.mux.HandleFunc("PATCH /api/restaurants/{id}", r.restaurantHandler.UpdateRestaurant)
	r.mux.HandleFunc("DELETE /api/restaurants/{id}", r.restaurantHandler.DeleteRestaurant)
	r.mux.HandleFunc("GET /api/restaurants/{id}/outlets", r.restaurantHandler.GetOutlets)
	r.mux.HandleFunc("POST /api/restaurants/{id}/rating", r.restaurantHandler.UpdateRating)
	r.mux.HandleFunc("GET /api/restaurants/{id}/menu", r.foodItemHandler.ListMenu)

	// Food item endpoints
	r.mux.HandleFunc("POST /api/food-items", r.foodItemHandler.CreateFoodItem)
	r.mux.HandleFunc("GET /api/food-items/{id}", r.foodItemHandler.GetFoodItem)
	r.mux.HandleFunc("PATCH /api/food-items/{id}", r.foodItemHandler.UpdateFoodItem)
	r.mux.HandleFunc("DELETE /api/food-items/{id}", r.foodItemHandler.DeleteFoodItem)

	// Search endpoint
	r.mux.HandleFunc("GET /api/search", r.searchHandler.Suggest)

	// Order endpoints
	r.mux.HandleFunc("POST /api/orders/charges", r.orderHandler.ComputeCharges)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
