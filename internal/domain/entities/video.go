package entities

// Video types mirror the serving modes they are surfaced under
const (
	VideoTypeDining   = "dining"
	VideoTypeDelivery = "delivery"
)

// Video represents a short-form media clip attached to a restaurant
// (dining) or to a specific food item (delivery)
type Video struct {
	ID           string `json:"id" db:"id"`
	RestaurantID string `json:"restaurant_id" db:"restaurant_id"`
	FoodItemID   string `json:"food_item_id,omitempty" db:"food_item_id"`
	Name         string `json:"name" db:"name"`
	Link         string `json:"link" db:"link"`
	Type         string `json:"type" db:"type"`
	Likes        int    `json:"likes" db:"likes"`
	Comments     int    `json:"comments" db:"comments"`
	CTAText      string `json:"cta_text" db:"cta_text"`
}
