package entities

import "time"

// FoodItem represents a menu item sold by a restaurant
type FoodItem struct {
	ID              string    `json:"id" db:"id"`
	RestaurantID    string    `json:"restaurant_id" db:"restaurant_id"`
	Name            string    `json:"name" db:"name"`
	Type            string    `json:"type" db:"type"`
	Rating          float64   `json:"rating" db:"rating"`
	NumberOfRatings int       `json:"number_of_ratings" db:"number_of_ratings"`
	Reviews         int       `json:"reviews" db:"reviews"`
	ActualCost      float64   `json:"actual_cost" db:"actual_cost"`
	DiscountedCost  float64   `json:"discounted_cost" db:"discounted_cost"`
	Details         string    `json:"details" db:"details"`
	Status          string    `json:"status" db:"status"`
	Images          []string  `json:"images,omitempty" db:"-"`
	MainImage       string    `json:"main_image,omitempty" db:"main_image"`
	Cuisines        []string  `json:"cuisines" db:"-"`
	Category        string    `json:"category" db:"category"`
	Bestseller      bool      `json:"bestseller" db:"bestseller"`
	Dietary         []string  `json:"dietary,omitempty" db:"-"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// HasAnyCuisine reports whether the item carries any of the given cuisines
func (f *FoodItem) HasAnyCuisine(cuisines []string) bool {
	for _, want := range cuisines {
		for _, have := range f.Cuisines {
			if have == want {
				return true
			}
		}
	}
	return false
}
