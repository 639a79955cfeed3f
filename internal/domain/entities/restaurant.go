package entities

import (
	"fmt"
	"time"
)

// Serving modes a restaurant can support
const (
	ModeDelivery = "delivery"
	ModeDining   = "dining"
)

// Restaurant represents a restaurant in the system
type Restaurant struct {
	ID               string    `json:"id" db:"id"`
	BrandID          string    `json:"brand_id" db:"brand_id"`
	Name             string    `json:"name" db:"name"`
	Address          Address   `json:"address" db:"-"`
	Location         GeoPoint  `json:"location" db:"-"`
	Rating           float64   `json:"rating" db:"rating"`
	NumberOfRatings  int       `json:"number_of_ratings" db:"number_of_ratings"`
	Reviews          int       `json:"reviews" db:"reviews"`
	FoodType         []string  `json:"food_type" db:"-"`
	Cuisines         []string  `json:"cuisines" db:"-"`
	ModeSupported    []string  `json:"mode_supported" db:"-"`
	DiningCategories []string  `json:"dining_categories" db:"-"`
	PopularDishes    []string  `json:"popular_dishes,omitempty" db:"-"`
	AvgCostForTwo    float64   `json:"avg_cost_for_two" db:"avg_cost_for_two"`
	AvgCostForFour   float64   `json:"avg_cost_for_four,omitempty" db:"avg_cost_for_four"`
	Images           []string  `json:"images,omitempty" db:"-"`
	MainImage        string    `json:"main_image,omitempty" db:"main_image"`
	MenuImageLink    string    `json:"menu_image_link,omitempty" db:"menu_image_link"`
	DiningTerms      string    `json:"dining_terms,omitempty" db:"dining_terms"`
	IsActive         bool      `json:"is_active" db:"is_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// Address represents a physical address
type Address struct {
	StreetAddress string `json:"street_address" db:"street_address"`
	City          string `json:"city" db:"city"`
	State         string `json:"state" db:"state"`
	ZipCode       string `json:"zip_code" db:"zip_code"`
}

// ShortAddress renders the street and city line shown in feed entries
func (a Address) ShortAddress() string {
	return fmt.Sprintf("%s, %s", a.StreetAddress, a.City)
}

// SupportsMode reports whether the restaurant serves the given mode
func (r *Restaurant) SupportsMode(mode string) bool {
	for _, m := range r.ModeSupported {
		if m == mode {
			return true
		}
	}
	return false
}

// HasFoodType reports whether the restaurant carries the given food
// type tag (case-insensitive match is the caller's concern; tags are
// stored canonicalized)
func (r *Restaurant) HasFoodType(foodType string) bool {
	for _, t := range r.FoodType {
		if t == foodType {
			return true
		}
	}
	return false
}

// HasAnyCuisine reports whether any of the given cuisines is served
func (r *Restaurant) HasAnyCuisine(cuisines []string) bool {
	for _, want := range cuisines {
		for _, have := range r.Cuisines {
			if have == want {
				return true
			}
		}
	}
	return false
}
