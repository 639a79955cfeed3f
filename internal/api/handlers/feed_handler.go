package handlers

import (
	"net/http"

	"github.com/savoraeats/savora-backend/internal/application/services"
	"github.com/savoraeats/savora-backend/internal/domain/entities"
)

// Default radius band when the client does not narrow it
const (
	defaultMinRadiusKm = 0.0
	defaultMaxRadiusKm = 10.0
)

// FeedHandler handles feed HTTP requests
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

// GetFeed handles GET /api/feed
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseRequiredCoords(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	q := r.URL.Query()
	req := services.FeedRequest{
		Center:    entities.GeoPoint{Latitude: lat, Longitude: lon},
		MinRadius: parseFloat(r, "minRadius", defaultMinRadiusKm),
		MaxRadius: parseFloat(r, "maxRadius", defaultMaxRadiusKm),
		Sort:      q.Get("sort"),
		UserID:    q.Get("userId"),
		Filters: services.FeedFilters{
			FoodType:      q.Get("foodType"),
			Mode:          q.Get("mode"),
			MinRating:     parseFloat(r, "rating", 0),
			MinCostForTwo: parseFloat(r, "minCostForTwo", 0),
			MaxCostForTwo: parseFloat(r, "maxCostForTwo", 0),
			Cuisines:      q.Get("cuisines"),
		},
	}

	feed, err := h.feedService.GetFeed(r.Context(), req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "feed fetched successfully", feed)
}
