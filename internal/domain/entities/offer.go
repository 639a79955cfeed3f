package entities

// Offer targets: an offer hangs off either a restaurant or a food item
const (
	OfferTypeRestaurant = "restaurant"
	OfferTypeFoodItem   = "foodItem"

	OfferStatusActive = "active"
)

// Offer represents a discount or promotion
type Offer struct {
	ID           string   `json:"id" db:"id"`
	Type         string   `json:"type" db:"type"`
	RestaurantID string   `json:"restaurant_id" db:"restaurant_id"`
	FoodItemID   string   `json:"food_item_id,omitempty" db:"food_item_id"`
	Description  string   `json:"description" db:"description"`
	ImageLink    string   `json:"image_link,omitempty" db:"image_link"`
	Conditions   []string `json:"conditions" db:"-"`
	StartDate    int64    `json:"start_date" db:"start_date"`
	EndDate      int64    `json:"end_date" db:"end_date"`
	Status       string   `json:"status" db:"status"`
	Amount       float64  `json:"amount" db:"amount"`
}

// IsActiveAt reports whether the offer is live at the given unix
// millisecond timestamp
func (o *Offer) IsActiveAt(nowMillis int64) bool {
	return o.Status == OfferStatusActive && o.StartDate <= nowMillis && o.EndDate >= nowMillis
}
