package entities

// RankedRestaurant is the list shape returned by the delivery/dining
// discovery, similar-restaurants and popular-restaurants endpoints: a
// restaurant enriched with resolved distance and a ranking score.
type RankedRestaurant struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Rating            float64  `json:"rating"`
	NumberOfRatings   int      `json:"numberOfRatings"`
	DistanceKm        float64  `json:"distanceInKm"`
	Cuisines          []string `json:"cuisines"`
	DiningCategories  []string `json:"diningCategories,omitempty"`
	Address           Address  `json:"address"`
	AverageCostForTwo float64  `json:"averageCostForTwo"`
	Images            []string `json:"images,omitempty"`
	MainImage         string   `json:"mainImage,omitempty"`
	FoodType          []string `json:"foodType"`
	Reviews           int      `json:"reviews"`
	ModeSupported     []string `json:"modeSupported,omitempty"`
	RelevanceScore    float64  `json:"relevanceScore"`
	TotalOrders       int      `json:"totalOrders,omitempty"`
	TotalAmount       float64  `json:"totalAmount,omitempty"`
}

// CuisineCount pairs a cuisine with how many nearby restaurants serve it
type CuisineCount struct {
	Cuisine string `json:"cuisine"`
	Count   int    `json:"count"`
}

// CategoryCount pairs a dining category with its nearby frequency
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CityCount pairs a city with how many nearby restaurants sit in it
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// OutletSummary is one same-brand outlet near the user
type OutletSummary struct {
	Name              string   `json:"name"`
	Images            []string `json:"images,omitempty"`
	MainImage         string   `json:"mainImage,omitempty"`
	Rating            float64  `json:"rating"`
	DistanceKm        float64  `json:"distance"`
	AverageCostForTwo float64  `json:"averageCostForTwo"`
	TimeMinutes       float64  `json:"time"`
}

// SearchSuggestions is the payload of the search suggestion endpoint
type SearchSuggestions struct {
	Restaurants []RestaurantSuggestion `json:"restaurants"`
	FoodItems   []FoodItemSuggestion   `json:"foodItems"`
	Cuisines    []string               `json:"cuisines"`
}

// RestaurantSuggestion is a compact restaurant hit
type RestaurantSuggestion struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	MainImage       string   `json:"mainImage,omitempty"`
	Rating          float64  `json:"rating"`
	NumberOfRatings int      `json:"numberOfRatings"`
	Cuisines        []string `json:"cuisines"`
}

// FoodItemSuggestion is a compact food item hit
type FoodItemSuggestion struct {
	Name      string `json:"name"`
	MainImage string `json:"mainImage,omitempty"`
}
