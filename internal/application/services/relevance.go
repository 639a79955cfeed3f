package services

// Relevance blends rating, review volume and proximity into a single
// ranking score. The weights and the unscaled count terms are part of
// the ranking contract shared with existing clients and stored
// results; do not rebalance them.
func RelevanceScore(rating float64, reviews, numberOfRatings int, distanceKm float64) float64 {
	return rating*0.4 +
		float64(reviews)*0.3 +
		(1/(distanceKm+1))*0.2 +
		float64(numberOfRatings)*0.1
}
