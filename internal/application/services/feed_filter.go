package services

import (
	"strings"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
)

// FeedFilters is the optional filter criteria of a feed request.
// Zero values mean "no constraint".
type FeedFilters struct {
	FoodType      string
	Mode          string
	MinRating     float64
	MinCostForTwo float64
	MaxCostForTwo float64
	Cuisines      string
}

// CuisineList splits the comma-separated cuisines criterion into a
// trimmed set. An empty criterion yields nil.
func (f FeedFilters) CuisineList() []string {
	if f.Cuisines == "" {
		return nil
	}
	parts := strings.Split(f.Cuisines, ",")
	cuisines := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			cuisines = append(cuisines, trimmed)
		}
	}
	return cuisines
}

// ApplyRestaurantFilters runs the filter chain over a candidate set.
// Filters apply in sequence, each over the previous filter's output:
// foodType, then mode, then rating, then cost band, then cuisines.
// Absent criteria pass every candidate through unchanged.
func ApplyRestaurantFilters(restaurants []*entities.Restaurant, filters FeedFilters) []*entities.Restaurant {
	out := restaurants

	if filters.FoodType != "" {
		out = keepRestaurants(out, func(r *entities.Restaurant) bool {
			return r.HasFoodType(filters.FoodType)
		})
	}

	if filters.Mode != "" {
		out = keepRestaurants(out, func(r *entities.Restaurant) bool {
			return r.SupportsMode(filters.Mode)
		})
	}

	if filters.MinRating > 0 {
		out = keepRestaurants(out, func(r *entities.Restaurant) bool {
			return r.Rating >= filters.MinRating
		})
	}

	if filters.MinCostForTwo > 0 || filters.MaxCostForTwo > 0 {
		out = keepRestaurants(out, func(r *entities.Restaurant) bool {
			if filters.MinCostForTwo > 0 && r.AvgCostForTwo < filters.MinCostForTwo {
				return false
			}
			if filters.MaxCostForTwo > 0 && r.AvgCostForTwo > filters.MaxCostForTwo {
				return false
			}
			return true
		})
	}

	if cuisines := filters.CuisineList(); len(cuisines) > 0 {
		out = keepRestaurants(out, func(r *entities.Restaurant) bool {
			return r.HasAnyCuisine(cuisines)
		})
	}

	return out
}

// ApplyFoodItemFilters narrows a restaurant's menu to the items that
// qualify for delivery aggregation under the same criteria: foodType
// exact match, cuisines any-match. Mode, rating and cost are
// restaurant attributes and do not apply at item level.
func ApplyFoodItemFilters(items []*entities.FoodItem, filters FeedFilters) []*entities.FoodItem {
	out := items

	if filters.FoodType != "" {
		out = keepFoodItems(out, func(item *entities.FoodItem) bool {
			return item.Type == filters.FoodType
		})
	}

	if cuisines := filters.CuisineList(); len(cuisines) > 0 {
		out = keepFoodItems(out, func(item *entities.FoodItem) bool {
			return item.HasAnyCuisine(cuisines)
		})
	}

	return out
}

func keepFoodItems(items []*entities.FoodItem, pred func(*entities.FoodItem) bool) []*entities.FoodItem {
	kept := make([]*entities.FoodItem, 0, len(items))
	for _, item := range items {
		if pred(item) {
			kept = append(kept, item)
		}
	}
	return kept
}

func keepRestaurants(restaurants []*entities.Restaurant, pred func(*entities.Restaurant) bool) []*entities.Restaurant {
	kept := make([]*entities.Restaurant, 0, len(restaurants))
	for _, r := range restaurants {
		if pred(r) {
			kept = append(kept, r)
		}
	}
	return kept
}
