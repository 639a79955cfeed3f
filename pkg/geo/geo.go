package geo

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Precision levels used when normalizing coordinates for cache keys.
// Three decimals is roughly 111m of positional accuracy, two decimals
// roughly 1.1km. The coarser precision deliberately widens the cache
// hit rate for pairwise distance and charge lookups.
const (
	RadiusKeyDigits   = 3
	DistanceKeyDigits = 2
)

// Round rounds value half away from zero to the given number of
// decimal places.
func Round(value float64, digits int) float64 {
	factor := math.Pow(10, float64(digits))
	return math.Round(value*factor) / factor
}

// formatCoord renders a coordinate without trailing zeros so that
// fingerprints stay stable across writers (12.900 and 12.9 must
// produce the same key).
func formatCoord(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// RadiusFingerprint builds the cache key for a radius search around a
// center point. Latitude and longitude are rounded to three decimals.
func RadiusFingerprint(lat, lon, minRadiusKm, maxRadiusKm float64) string {
	return fmt.Sprintf("restaurants:%s:%s:%s:%s",
		formatCoord(Round(lat, RadiusKeyDigits)),
		formatCoord(Round(lon, RadiusKeyDigits)),
		formatCoord(minRadiusKm),
		formatCoord(maxRadiusKm),
	)
}

// DistanceFingerprint builds the cache key for a pairwise
// restaurant-to-user distance lookup. The user position is rounded to
// two decimals; the restaurant position is used verbatim since it is
// a fixed point of truth.
func DistanceFingerprint(restaurantLat, restaurantLon, userLat, userLon float64) string {
	return fmt.Sprintf("distance#restaurant#%s:%s#user#%s:%s",
		formatCoord(restaurantLat),
		formatCoord(restaurantLon),
		formatCoord(Round(userLat, DistanceKeyDigits)),
		formatCoord(Round(userLon, DistanceKeyDigits)),
	)
}

// ChargeFingerprint builds the cache key for a delivery-charge
// distance lookup between a restaurant and a user address. Both ends
// are rounded to two decimals.
func ChargeFingerprint(restaurantLat, restaurantLon, userLat, userLon float64) string {
	return fmt.Sprintf("restaurant#%s,%s#user#%s,%s",
		formatCoord(Round(restaurantLat, DistanceKeyDigits)),
		formatCoord(Round(restaurantLon, DistanceKeyDigits)),
		formatCoord(Round(userLat, DistanceKeyDigits)),
		formatCoord(Round(userLon, DistanceKeyDigits)),
	)
}

// SimilarFingerprint builds the cache key for a similar-restaurants
// lookup around a reference restaurant.
func SimilarFingerprint(lat, lon float64, restaurantID string) string {
	return fmt.Sprintf("similarRestaurants:%s:%s:%s",
		formatCoord(Round(lat, RadiusKeyDigits)),
		formatCoord(Round(lon, RadiusKeyDigits)),
		restaurantID,
	)
}

// PopularFingerprint builds the cache key for one of the nearby
// popularity aggregates (cuisines, dining categories, locations). The
// prefix carries the aggregate kind; coordinates are rounded to two
// decimals since popularity shifts slowly across a neighborhood.
func PopularFingerprint(prefix string, lat, lon float64) string {
	return fmt.Sprintf("%s:%s:%s",
		prefix,
		formatCoord(Round(lat, DistanceKeyDigits)),
		formatCoord(Round(lon, DistanceKeyDigits)),
	)
}

// HaversineKm returns the great-circle distance between two points in
// kilometers.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	return orbgeo.Distance(orb.Point{lon1, lat1}, orb.Point{lon2, lat2}) / 1000
}

// BoundAround returns a bounding box extending radiusKm in every
// direction from the center. Used as a cheap broad-phase filter ahead
// of the exact routing-matrix distance computation.
func BoundAround(lat, lon, radiusKm float64) (minLat, minLon, maxLat, maxLon float64) {
	bound := orbgeo.NewBoundAroundPoint(orb.Point{lon, lat}, radiusKm*1000)
	return bound.Min.Lat(), bound.Min.Lon(), bound.Max.Lat(), bound.Max.Lon()
}
