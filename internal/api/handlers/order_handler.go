package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/savoraeats/savora-backend/internal/application/services"
)

// OrderHandler handles order-adjacent HTTP requests
type OrderHandler struct {
	chargeService *services.ChargeService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(chargeService *services.ChargeService) *OrderHandler {
	return &OrderHandler{
		chargeService: chargeService,
	}
}

// ComputeCharges handles POST /api/orders/charges
func (h *OrderHandler) ComputeCharges(w http.ResponseWriter, r *http.Request) {
	var req services.ChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	breakdown, err := h.chargeService.Compute(r.Context(), req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, "charges computed successfully", breakdown)
}
