package services_test

import (
	"context"
	"path"
	"strings"
	"sync"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/providers"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
	apperrors "github.com/savoraeats/savora-backend/pkg/errors"
	"github.com/savoraeats/savora-backend/pkg/geo"
)

// memoryCache is an in-memory CacheProvider recording the operations
// applied to it, in order.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ops  []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if val, ok := c.data[key]; ok {
		return val, nil
	}
	return nil, apperrors.NewNotFoundError("cache miss")
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ops = append(c.ops, "set:"+key)
	return nil
}

func (c *memoryCache) SetNX(ctx context.Context, key string, value []byte, expirationSeconds int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.data[key]; exists {
		return false, nil
	}
	c.data[key] = value
	c.ops = append(c.ops, "setnx:"+key)
	return true, nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.ops = append(c.ops, "delete:"+key)
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.data {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.data, key)
		}
	}
	c.ops = append(c.ops, "deletePattern:"+pattern)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func (c *memoryCache) operations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ops...)
}

// stubRestaurantRepo serves a fixed restaurant set
type stubRestaurantRepo struct {
	restaurants []*entities.Restaurant
}

func (r *stubRestaurantRepo) Create(ctx context.Context, restaurant *entities.Restaurant) error {
	r.restaurants = append(r.restaurants, restaurant)
	return nil
}

func (r *stubRestaurantRepo) GetByID(ctx context.Context, id string) (*entities.Restaurant, error) {
	for _, restaurant := range r.restaurants {
		if restaurant.ID == id {
			return restaurant, nil
		}
	}
	return nil, apperrors.NewNotFoundError("restaurant not found")
}

func (r *stubRestaurantRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.Restaurant, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	// Deliberately not in request order; callers must not rely on it
	out := make([]*entities.Restaurant, 0, len(ids))
	for i := len(r.restaurants) - 1; i >= 0; i-- {
		if _, ok := want[r.restaurants[i].ID]; ok {
			out = append(out, r.restaurants[i])
		}
	}
	return out, nil
}

func (r *stubRestaurantRepo) Update(ctx context.Context, restaurant *entities.Restaurant) error {
	return nil
}

func (r *stubRestaurantRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func (r *stubRestaurantRepo) List(ctx context.Context, filter repositories.RestaurantFilter) ([]*entities.Restaurant, error) {
	return r.restaurants, nil
}

func (r *stubRestaurantRepo) ListPositions(ctx context.Context) ([]repositories.RestaurantPosition, error) {
	positions := make([]repositories.RestaurantPosition, 0, len(r.restaurants))
	for _, restaurant := range r.restaurants {
		positions = append(positions, repositories.RestaurantPosition{ID: restaurant.ID, Location: restaurant.Location})
	}
	return positions, nil
}

func (r *stubRestaurantRepo) ListPositionsWithinBound(ctx context.Context, minLat, minLon, maxLat, maxLon float64) ([]repositories.RestaurantPosition, error) {
	positions := make([]repositories.RestaurantPosition, 0, len(r.restaurants))
	for _, restaurant := range r.restaurants {
		loc := restaurant.Location
		if loc.Latitude < minLat || loc.Latitude > maxLat || loc.Longitude < minLon || loc.Longitude > maxLon {
			continue
		}
		positions = append(positions, repositories.RestaurantPosition{ID: restaurant.ID, Location: loc})
	}
	return positions, nil
}

func (r *stubRestaurantRepo) SuggestByNameOrCuisine(ctx context.Context, query string, ids []string, limit int) ([]*entities.Restaurant, error) {
	allowed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}
	lowered := strings.ToLower(query)
	out := make([]*entities.Restaurant, 0)
	for _, restaurant := range r.restaurants {
		if _, ok := allowed[restaurant.ID]; !ok {
			continue
		}
		if !matchesNameOrCuisine(restaurant.Name, restaurant.Cuisines, lowered) {
			continue
		}
		out = append(out, restaurant)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// stubRouting returns scripted driving distances per destination and
// counts matrix calls. Destinations without a scripted distance fall
// back to the straight-line distance.
type stubRouting struct {
	mu        sync.Mutex
	distances map[entities.GeoPoint]float64 // meters
	calls     int
	lastDests []entities.GeoPoint
	err       error
}

func (p *stubRouting) Matrix(ctx context.Context, origin entities.GeoPoint, destinations []entities.GeoPoint) (*providers.MatrixResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.lastDests = append([]entities.GeoPoint(nil), destinations...)
	if p.err != nil {
		return nil, p.err
	}

	result := &providers.MatrixResult{
		Distances: make([]float64, len(destinations)),
		Durations: make([]float64, len(destinations)),
	}
	for i, dest := range destinations {
		meters, ok := p.distances[dest]
		if !ok {
			meters = geo.HaversineKm(origin.Latitude, origin.Longitude, dest.Latitude, dest.Longitude) * 1000
		}
		result.Distances[i] = meters
		result.Durations[i] = meters / 1000 * 120 // 2 min per km
	}
	return result, nil
}

func (p *stubRouting) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// stubFoodItemRepo serves fixed menus keyed by restaurant
type stubFoodItemRepo struct {
	items []*entities.FoodItem
}

func (r *stubFoodItemRepo) Create(ctx context.Context, item *entities.FoodItem) error {
	r.items = append(r.items, item)
	return nil
}

func (r *stubFoodItemRepo) GetByID(ctx context.Context, id string) (*entities.FoodItem, error) {
	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, apperrors.NewNotFoundError("food item not found")
}

func (r *stubFoodItemRepo) Update(ctx context.Context, item *entities.FoodItem) error {
	return nil
}

func (r *stubFoodItemRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func (r *stubFoodItemRepo) ListByRestaurant(ctx context.Context, restaurantID string) ([]*entities.FoodItem, error) {
	out := make([]*entities.FoodItem, 0)
	for _, item := range r.items {
		if item.RestaurantID == restaurantID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubFoodItemRepo) ListByRestaurants(ctx context.Context, restaurantIDs []string) ([]*entities.FoodItem, error) {
	want := make(map[string]struct{}, len(restaurantIDs))
	for _, id := range restaurantIDs {
		want[id] = struct{}{}
	}
	out := make([]*entities.FoodItem, 0)
	for _, item := range r.items {
		if _, ok := want[item.RestaurantID]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubFoodItemRepo) SuggestByNameOrCuisine(ctx context.Context, query string, restaurantIDs []string, limit int) ([]*entities.FoodItem, error) {
	allowed := make(map[string]struct{}, len(restaurantIDs))
	for _, id := range restaurantIDs {
		allowed[id] = struct{}{}
	}
	lowered := strings.ToLower(query)
	out := make([]*entities.FoodItem, 0)
	for _, item := range r.items {
		if _, ok := allowed[item.RestaurantID]; !ok {
			continue
		}
		if !matchesNameOrCuisine(item.Name, item.Cuisines, lowered) {
			continue
		}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func matchesNameOrCuisine(name string, cuisines []string, loweredQuery string) bool {
	if strings.Contains(strings.ToLower(name), loweredQuery) {
		return true
	}
	for _, cuisine := range cuisines {
		if strings.HasPrefix(strings.ToLower(cuisine), loweredQuery) {
			return true
		}
	}
	return false
}

// stubOfferRepo serves a fixed offer set
type stubOfferRepo struct {
	offers []*entities.Offer
}

func (r *stubOfferRepo) Create(ctx context.Context, offer *entities.Offer) error {
	r.offers = append(r.offers, offer)
	return nil
}

func (r *stubOfferRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.Offer, error) {
	return nil, nil
}

func (r *stubOfferRepo) ListForRestaurant(ctx context.Context, restaurantID string) ([]*entities.Offer, error) {
	out := make([]*entities.Offer, 0)
	for _, o := range r.offers {
		if o.RestaurantID == restaurantID && o.Type == entities.OfferTypeRestaurant {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *stubOfferRepo) ListForFoodItem(ctx context.Context, foodItemID string) ([]*entities.Offer, error) {
	out := make([]*entities.Offer, 0)
	for _, o := range r.offers {
		if o.FoodItemID == foodItemID && o.Type == entities.OfferTypeFoodItem {
			out = append(out, o)
		}
	}
	return out, nil
}

// stubVideoRepo serves a fixed video set
type stubVideoRepo struct {
	videos []*entities.Video
	liked  []string
}

func (r *stubVideoRepo) Create(ctx context.Context, video *entities.Video) error {
	r.videos = append(r.videos, video)
	return nil
}

func (r *stubVideoRepo) ListForRestaurant(ctx context.Context, restaurantID string) ([]*entities.Video, error) {
	out := make([]*entities.Video, 0)
	for _, v := range r.videos {
		if v.RestaurantID == restaurantID && v.Type == entities.VideoTypeDining {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *stubVideoRepo) ListForFoodItem(ctx context.Context, foodItemID string) ([]*entities.Video, error) {
	out := make([]*entities.Video, 0)
	for _, v := range r.videos {
		if v.FoodItemID == foodItemID && v.Type == entities.VideoTypeDelivery {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *stubVideoRepo) LikedVideoIDs(ctx context.Context, userID string) ([]string, error) {
	return r.liked, nil
}

// stubOrderRepo serves fixed popularity aggregates
type stubOrderRepo struct {
	stats []entities.PopularityStat
}

func (r *stubOrderRepo) PopularityStats(ctx context.Context, restaurantIDs []string) ([]entities.PopularityStat, error) {
	want := make(map[string]struct{}, len(restaurantIDs))
	for _, id := range restaurantIDs {
		want[id] = struct{}{}
	}
	out := make([]entities.PopularityStat, 0)
	for _, stat := range r.stats {
		if _, ok := want[stat.RestaurantID]; ok {
			out = append(out, stat)
		}
	}
	return out, nil
}
