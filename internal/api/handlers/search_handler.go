package handlers

import (
	"net/http"

	"github.com/savoraeats/savora-backend/internal/application/services"
	"github.com/savoraeats/savora-backend/internal/domain/entities"
)

// SearchHandler handles search suggestion HTTP requests
type SearchHandler struct {
	searchService *services.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// Suggest handles GET /api/search
func (h *SearchHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseRequiredCoords(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "query is required")
		return
	}

	suggestions, err := h.searchService.Suggest(r.Context(), query, entities.GeoPoint{Latitude: lat, Longitude: lon})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "suggestions fetched successfully", suggestions)
}
