package entities

// Feed entry types
const (
	FeedTypeDining   = "dining"
	FeedTypeDelivery = "delivery"
)

// OfferSummary is the compact offer shape attached to feed entries
type OfferSummary struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// VideoData is one media clip inside a feed entry. Delivery entries
// carry per-food-item pricing, rating and offers on each clip; dining
// entries leave those fields empty.
type VideoData struct {
	VideoID   string         `json:"videoId"`
	VideoLink string         `json:"videoLink"`
	Cost      float64        `json:"cost,omitempty"`
	FoodType  string         `json:"foodType,omitempty"`
	Likes     int            `json:"likes"`
	Liked     bool           `json:"liked"`
	Comments  int            `json:"comments"`
	Rating    float64        `json:"rating,omitempty"`
	Offers    []OfferSummary `json:"offers,omitempty"`
}

// FeedEntry is one row of the assembled feed. A dining entry attaches
// directly to one restaurant; a delivery entry aggregates the media of
// every qualifying food item under its parent restaurant: exactly one
// delivery entry per restaurant regardless of item count.
type FeedEntry struct {
	Type               string         `json:"type"`
	RestaurantID       string         `json:"restaurantId"`
	RestaurantName     string         `json:"restaurantName"`
	Distance           float64        `json:"distance"`
	DistanceUnit       string         `json:"distanceUnit"`
	FoodTypes          []string       `json:"foodTypes,omitempty"`
	SpendCost          float64        `json:"spendCost"`
	NumberOfPeople     int            `json:"numberOfPeople,omitempty"`
	Address            string         `json:"address"`
	Rating             float64        `json:"rating,omitempty"`
	RestaurantRating   float64        `json:"restaurantRating,omitempty"`
	FoodType           []string       `json:"foodType,omitempty"`
	RestaurantFoodType []string       `json:"restaurantFoodType,omitempty"`
	Offers             []OfferSummary `json:"offers,omitempty"`
	CTAText            string         `json:"ctaText"`
	VideosData         []VideoData    `json:"videosData"`
	RelevanceScore     float64        `json:"relevanceScore"`
}

// SortRating returns the rating used when ordering entries by rating:
// dining entries sort on their own rating, delivery entries on the
// parent restaurant's rating.
func (e *FeedEntry) SortRating() float64 {
	if e.Type == FeedTypeDelivery {
		return e.RestaurantRating
	}
	return e.Rating
}
