package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savoraeats/savora-backend/internal/application/services"
	"github.com/savoraeats/savora-backend/internal/domain/entities"
	apperrors "github.com/savoraeats/savora-backend/pkg/errors"
)

type chargeFixture struct {
	svc     *services.ChargeService
	cache   *memoryCache
	routing *stubRouting
	offers  *stubOfferRepo
}

func newChargeFixture() *chargeFixture {
	restaurants := &stubRestaurantRepo{
		restaurants: []*entities.Restaurant{
			{ID: "rest-1", Name: "Restaurant", Location: nearLoc, IsActive: true},
		},
	}
	items := &stubFoodItemRepo{
		items: []*entities.FoodItem{
			{ID: "item-1", RestaurantID: "rest-1", ActualCost: 200, DiscountedCost: 180},
			{ID: "item-2", RestaurantID: "rest-1", ActualCost: 100, DiscountedCost: 100},
		},
	}

	now := time.Now()
	offers := &stubOfferRepo{
		offers: []*entities.Offer{
			{
				ID:           "offer-active",
				Type:         entities.OfferTypeRestaurant,
				RestaurantID: "rest-1",
				Status:       entities.OfferStatusActive,
				StartDate:    now.Add(-time.Hour).UnixMilli(),
				EndDate:      now.Add(time.Hour).UnixMilli(),
				Amount:       50,
			},
			{
				ID:           "offer-expired",
				Type:         entities.OfferTypeRestaurant,
				RestaurantID: "rest-1",
				Status:       entities.OfferStatusActive,
				StartDate:    now.Add(-48 * time.Hour).UnixMilli(),
				EndDate:      now.Add(-24 * time.Hour).UnixMilli(),
				Amount:       30,
			},
		},
	}

	routing := &stubRouting{
		distances: map[entities.GeoPoint]float64{nearLoc: 4000},
	}
	cacheStore := newMemoryCache()
	proximity := services.NewProximityService(restaurants, cacheStore, routing, time.Second)
	svc := services.NewChargeService(restaurants, items, offers, proximity, cacheStore)
	return &chargeFixture{svc: svc, cache: cacheStore, routing: routing, offers: offers}
}

func chargeRequest() services.ChargeRequest {
	return services.ChargeRequest{
		UserID:       "user-1",
		RestaurantID: "rest-1",
		UserLocation: proximityCenter,
		Items: []services.ChargeItem{
			{FoodItemID: "item-1", Quantity: 2},
			{FoodItemID: "item-2", Quantity: 1},
		},
	}
}

func TestCompute_BreakdownTotals(t *testing.T) {
	fx := newChargeFixture()

	breakdown, err := fx.svc.Compute(context.Background(), chargeRequest())
	require.NoError(t, err)

	assert.InDelta(t, 500, breakdown.Total, 1e-9)
	assert.InDelta(t, 460, breakdown.TotalDiscounted, 1e-9)
	assert.InDelta(t, 460*0.18, breakdown.GSTCharges, 1e-9)
	assert.InDelta(t, 4*10, breakdown.DeliveryFees, 1e-9)
	assert.InDelta(t, 4, breakdown.DistanceKm, 1e-9)
	// Only the currently active offer counts toward the discount
	assert.InDelta(t, 50, breakdown.Discount, 1e-9)
}

func TestCompute_ReplacesCachedPreview(t *testing.T) {
	fx := newChargeFixture()

	_, err := fx.svc.Compute(context.Background(), chargeRequest())
	require.NoError(t, err)
	_, err = fx.svc.Compute(context.Background(), chargeRequest())
	require.NoError(t, err)

	// Every recomputation deletes the previous preview before writing
	key := "charges#user-1#rest-1"
	var sequence []string
	for _, op := range fx.cache.operations() {
		if op == "delete:"+key || op == "set:"+key {
			sequence = append(sequence, op)
		}
	}
	assert.Equal(t, []string{"delete:" + key, "set:" + key, "delete:" + key, "set:" + key}, sequence)
}

func TestCompute_DistanceIsCachedAcrossPreviews(t *testing.T) {
	fx := newChargeFixture()

	_, err := fx.svc.Compute(context.Background(), chargeRequest())
	require.NoError(t, err)
	_, err = fx.svc.Compute(context.Background(), chargeRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, fx.routing.callCount())
}

func TestCompute_RejectsEmptyBasket(t *testing.T) {
	fx := newChargeFixture()

	req := chargeRequest()
	req.Items = nil
	_, err := fx.svc.Compute(context.Background(), req)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestCompute_RejectsNonPositiveQuantity(t *testing.T) {
	fx := newChargeFixture()

	req := chargeRequest()
	req.Items[0].Quantity = 0
	_, err := fx.svc.Compute(context.Background(), req)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestCompute_UnknownRestaurantIsNotFound(t *testing.T) {
	fx := newChargeFixture()

	req := chargeRequest()
	req.RestaurantID = "missing"
	_, err := fx.svc.Compute(context.Background(), req)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}
