package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/savoraeats/savora-backend/pkg/geo"
)

func TestRound(t *testing.T) {
	tests := []struct {
		value  float64
		digits int
		want   float64
	}{
		{12.34567, 3, 12.346},
		{12.344, 2, 12.34},
		{-12.3456, 3, -12.346},
		{77.6, 3, 77.6},
		{0, 3, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, geo.Round(tt.value, tt.digits))
	}
}

func TestRadiusFingerprint(t *testing.T) {
	assert.Equal(t, "restaurants:12.971:77.61:0:10", geo.RadiusFingerprint(12.97123, 77.60951, 0, 10))
	// Trailing zeros never leak into the key
	assert.Equal(t, "restaurants:12.9:77.6:2:7.5", geo.RadiusFingerprint(12.9, 77.6, 2, 7.5))
}

func TestRadiusFingerprint_NearbyOriginsCollide(t *testing.T) {
	a := geo.RadiusFingerprint(12.9001, 77.6002, 0, 10)
	b := geo.RadiusFingerprint(12.9004, 77.5996, 0, 10)
	assert.Equal(t, a, b)
}

func TestDistanceFingerprint(t *testing.T) {
	// The restaurant end stays verbatim, the user end rounds to two
	// decimals
	got := geo.DistanceFingerprint(12.97123, 77.60951, 12.9347, 77.6121)
	assert.Equal(t, "distance#restaurant#12.97123:77.60951#user#12.93:77.61", got)
}

func TestChargeFingerprint(t *testing.T) {
	got := geo.ChargeFingerprint(12.97123, 77.60951, 12.9347, 77.6121)
	assert.Equal(t, "restaurant#12.97,77.61#user#12.93,77.61", got)
}

func TestSimilarFingerprint(t *testing.T) {
	got := geo.SimilarFingerprint(12.97123, 77.60951, "rest-1")
	assert.Equal(t, "similarRestaurants:12.971:77.61:rest-1", got)
}

func TestPopularFingerprint(t *testing.T) {
	assert.Equal(t, "popularCuisines:12.97:77.61", geo.PopularFingerprint("popularCuisines", 12.9712, 77.6095))
	assert.Equal(t, "popularLocations:12.9:77.6", geo.PopularFingerprint("popularLocations", 12.9, 77.6))
}

func TestHaversineKm(t *testing.T) {
	// Bengaluru city center to the airport is roughly 32km
	d := geo.HaversineKm(12.9716, 77.5946, 13.1986, 77.7066)
	assert.InDelta(t, 28.0, d, 1.0)

	assert.Zero(t, geo.HaversineKm(12.9, 77.6, 12.9, 77.6))
}

func TestBoundAround_ContainsCenterAndIsSymmetric(t *testing.T) {
	minLat, minLon, maxLat, maxLon := geo.BoundAround(12.9, 77.6, 5)

	assert.Less(t, minLat, 12.9)
	assert.Greater(t, maxLat, 12.9)
	assert.Less(t, minLon, 77.6)
	assert.Greater(t, maxLon, 77.6)
	assert.InDelta(t, 12.9-minLat, maxLat-12.9, 1e-6)
	assert.InDelta(t, 77.6-minLon, maxLon-77.6, 1e-6)
}
