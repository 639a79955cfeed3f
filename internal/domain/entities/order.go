package entities

import "time"

// Order represents a placed delivery order. Only the fields the
// discovery path reads (popularity aggregation and charge computation)
// are modeled here.
type Order struct {
	ID           string      `json:"id" db:"id"`
	UserID       string      `json:"user_id" db:"user_id"`
	RestaurantID string      `json:"restaurant_id" db:"restaurant_id"`
	Items        []OrderItem `json:"items" db:"-"`
	Total        float64     `json:"total" db:"total"`
	Status       string      `json:"status" db:"status"`
	PlacedOn     time.Time   `json:"placed_on" db:"placed_on"`
}

// OrderItem is a single line of an order
type OrderItem struct {
	FoodItemID string  `json:"food_item_id" db:"food_item_id"`
	Name       string  `json:"name" db:"name"`
	Price      float64 `json:"price" db:"price"`
	Quantity   int     `json:"quantity" db:"quantity"`
}

// PopularityStat aggregates order volume for one restaurant
type PopularityStat struct {
	RestaurantID string  `json:"restaurant_id" db:"restaurant_id"`
	TotalOrders  int     `json:"total_orders" db:"total_orders"`
	TotalAmount  float64 `json:"total_amount" db:"total_amount"`
}

// ChargeBreakdown is the bill preview computed before an order is
// placed
type ChargeBreakdown struct {
	Total           float64 `json:"total"`
	TotalDiscounted float64 `json:"totalDiscounted"`
	DeliveryFees    float64 `json:"deliveryFees"`
	GSTCharges      float64 `json:"gstCharges"`
	ExtraCharges    float64 `json:"extraCharges"`
	Discount        float64 `json:"discount"`
	DistanceKm      float64 `json:"distanceInKm"`
	TimeMinutes     float64 `json:"time"`
}
