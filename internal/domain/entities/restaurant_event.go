package entities

import "time"

// Restaurant event types published on the event bus
const (
	RestaurantEventCreated = "restaurant.created"
	RestaurantEventUpdated = "restaurant.updated"
	RestaurantEventDeleted = "restaurant.deleted"
)

// RestaurantEvent signals that a restaurant's attributes or position
// changed. The cache invalidation service reacts by dropping geo
// fingerprints whose results may now be stale.
type RestaurantEvent struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	EventType    string    `json:"event_type"`
	Timestamp    time.Time `json:"timestamp"`
}
