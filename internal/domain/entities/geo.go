package entities

// GeoPoint represents geographical coordinates
type GeoPoint struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// ProximityResult is one row of a resolved radius search: a restaurant
// together with its real-world driving distance and travel time from
// the query origin. Results are transient and live only as long as the
// cache entry for their fingerprint.
type ProximityResult struct {
	RestaurantID    string  `json:"restaurantId"`
	DistanceKm      float64 `json:"distanceInKm"`
	DurationMinutes float64 `json:"timeInMinutes"`
}

// DistanceResult is a single pairwise distance/duration lookup between
// a restaurant and a user position.
type DistanceResult struct {
	DistanceKm      float64 `json:"distanceInKm"`
	DurationMinutes float64 `json:"durationInMinutes"`
}
