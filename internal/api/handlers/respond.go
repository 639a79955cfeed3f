package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	apperrors "github.com/savoraeats/savora-backend/pkg/errors"
)

// envelope is the response shape shared by every endpoint. Errors use
// the same shape with a null data field.
type envelope struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(envelope{Message: message, Data: data})
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, message, nil)
}

// respondWithAppError maps error taxonomy types onto HTTP statuses
func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
		case apperrors.ErrorTypeUnauthorized:
			respondWithError(w, http.StatusUnauthorized, appErr.Message)
		case apperrors.ErrorTypeExternal, apperrors.ErrorTypeTimeout:
			respondWithError(w, http.StatusInternalServerError, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}

// parseFloat reads an optional float query parameter, falling back to
// a default when absent or malformed
func parseFloat(r *http.Request, name string, fallback float64) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

// parseRequiredCoords reads latitude and longitude, reporting whether
// both were present and well formed
func parseRequiredCoords(r *http.Request) (lat, lon float64, ok bool) {
	latRaw := r.URL.Query().Get("latitude")
	lonRaw := r.URL.Query().Get("longitude")
	if latRaw == "" || lonRaw == "" {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(latRaw, 64)
	lon, errLon := strconv.ParseFloat(lonRaw, 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
