package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/providers"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
	apperrors "github.com/savoraeats/savora-backend/pkg/errors"
	"github.com/savoraeats/savora-backend/pkg/geo"
)

// Charge constants
const (
	gstRate           = 0.18
	deliveryFeePerKm  = 10.0
	chargeResultTTL   = 86400
	chargeDistanceTTL = 86400
)

// ChargeItem is one requested line of a charge preview
type ChargeItem struct {
	FoodItemID string `json:"foodItemId"`
	Quantity   int    `json:"quantity"`
}

// ChargeRequest is a pre-order bill computation request
type ChargeRequest struct {
	UserID       string            `json:"userId"`
	RestaurantID string            `json:"restaurantId"`
	UserLocation entities.GeoPoint `json:"userLocation"`
	Items        []ChargeItem      `json:"items"`
}

// ChargeService computes the delivery bill preview: item totals, GST,
// distance-based delivery fee and offer discount. The latest preview
// per (user, restaurant) pair is cached with delete-then-create so a
// recomputation always replaces the previous one.
type ChargeService struct {
	restaurantRepo repositories.RestaurantRepository
	foodItemRepo   repositories.FoodItemRepository
	offerRepo      repositories.OfferRepository
	proximity      *ProximityService
	cache          providers.CacheProvider
}

// NewChargeService creates a new charge service
func NewChargeService(
	restaurantRepo repositories.RestaurantRepository,
	foodItemRepo repositories.FoodItemRepository,
	offerRepo repositories.OfferRepository,
	proximity *ProximityService,
	cache providers.CacheProvider,
) *ChargeService {
	return &ChargeService{
		restaurantRepo: restaurantRepo,
		foodItemRepo:   foodItemRepo,
		offerRepo:      offerRepo,
		proximity:      proximity,
		cache:          cache,
	}
}

func chargeCacheKey(userID, restaurantID string) string {
	return fmt.Sprintf("charges#%s#%s", userID, restaurantID)
}

// Compute builds the charge breakdown for a basket
func (s *ChargeService) Compute(ctx context.Context, req ChargeRequest) (*entities.ChargeBreakdown, error) {
	if req.UserID == "" || req.RestaurantID == "" {
		return nil, apperrors.NewValidationError("userId and restaurantId are required")
	}
	if len(req.Items) == 0 {
		return nil, apperrors.NewValidationError("at least one item is required")
	}

	restaurant, err := s.restaurantRepo.GetByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}

	distance, err := s.chargeDistance(ctx, restaurant.Location, req.UserLocation)
	if err != nil {
		return nil, err
	}

	var total, totalDiscounted float64
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, apperrors.NewValidationError("item quantity must be positive")
		}
		item, err := s.foodItemRepo.GetByID(ctx, line.FoodItemID)
		if err != nil {
			return nil, err
		}
		total += item.ActualCost * float64(line.Quantity)
		totalDiscounted += item.DiscountedCost * float64(line.Quantity)
	}

	breakdown := &entities.ChargeBreakdown{
		Total:           total,
		TotalDiscounted: totalDiscounted,
		DeliveryFees:    distance.DistanceKm * deliveryFeePerKm,
		GSTCharges:      totalDiscounted * gstRate,
		Discount:        s.offerDiscount(ctx, req.RestaurantID),
		DistanceKm:      distance.DistanceKm,
		TimeMinutes:     distance.DurationMinutes,
	}

	s.storeCharges(ctx, req.UserID, req.RestaurantID, breakdown)
	return breakdown, nil
}

// chargeDistance resolves the restaurant-to-user distance under the
// coarse charge fingerprint (both ends rounded to two decimals).
func (s *ChargeService) chargeDistance(ctx context.Context, restaurant, user entities.GeoPoint) (*entities.DistanceResult, error) {
	fingerprint := geo.ChargeFingerprint(restaurant.Latitude, restaurant.Longitude, user.Latitude, user.Longitude)

	if cached, err := s.cache.Get(ctx, fingerprint); err == nil {
		var result entities.DistanceResult
		if err := json.Unmarshal(cached, &result); err == nil {
			return &result, nil
		}
	}

	result, err := s.proximity.DistanceBetween(ctx, restaurant, user)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		if _, err := s.cache.SetNX(ctx, fingerprint, data, chargeDistanceTTL); err != nil {
			log.Warn().Err(err).Str("fingerprint", fingerprint).Msg("Failed to cache charge distance")
		}
	}

	return result, nil
}

// offerDiscount sums the active restaurant-level offer amounts
func (s *ChargeService) offerDiscount(ctx context.Context, restaurantID string) float64 {
	offers, err := s.offerRepo.ListForRestaurant(ctx, restaurantID)
	if err != nil {
		log.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("Failed to load offers for charge discount")
		return 0
	}

	nowMillis := time.Now().UnixMilli()
	var discount float64
	for _, o := range offers {
		if o.IsActiveAt(nowMillis) {
			discount += o.Amount
		}
	}
	return discount
}

// storeCharges replaces the cached preview for the pair. Delete then
// create keeps the key's contents unambiguous even with a plain Set
// racing an expiry.
func (s *ChargeService) storeCharges(ctx context.Context, userID, restaurantID string, breakdown *entities.ChargeBreakdown) {
	key := chargeCacheKey(userID, restaurantID)
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to delete previous charge cache entry")
	}
	if data, err := json.Marshal(breakdown); err == nil {
		if err := s.cache.Set(ctx, key, data, chargeResultTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to cache charge breakdown")
		}
	}
}
