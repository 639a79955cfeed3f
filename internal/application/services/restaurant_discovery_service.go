package services

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/providers"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
	apperrors "github.com/savoraeats/savora-backend/pkg/errors"
	"github.com/savoraeats/savora-backend/pkg/geo"
)

// Popularity aggregate cache key prefixes
const (
	popularCuisinesPrefix   = "popularCuisines"
	popularCategoriesPrefix = "popularDiningCategories"
	popularLocationsPrefix  = "popularLocations"
)

// Cache TTLs (in seconds)
const (
	similarResultTTL = 900
	popularResultTTL = 1800
)

// Discovery list sort criteria, extending the feed set
const (
	SortRatingLowHigh = "Rating:Low to High"
	SortRatingHighLow = "Rating:High to Low"
	SortDistance      = "distance"
)

// DiscoveryRequest is a ranked-list query around a user position
type DiscoveryRequest struct {
	Center         entities.GeoPoint
	MinRadius      float64
	MaxRadius      float64
	Sort           string
	FoodType       string
	Cuisines       string
	DiningCategory string
	MinRating      float64
	MinCostForTwo  float64
	MaxCostForTwo  float64
}

// RestaurantDiscoveryService serves the ranked restaurant lists:
// delivery and dining discovery, similar restaurants, popularity
// aggregates and outlet lookups.
type RestaurantDiscoveryService struct {
	proximity      *ProximityService
	restaurantRepo repositories.RestaurantRepository
	orderRepo      repositories.OrderRepository
	cache          providers.CacheProvider
}

// NewRestaurantDiscoveryService creates a new discovery service
func NewRestaurantDiscoveryService(
	proximity *ProximityService,
	restaurantRepo repositories.RestaurantRepository,
	orderRepo repositories.OrderRepository,
	cache providers.CacheProvider,
) *RestaurantDiscoveryService {
	return &RestaurantDiscoveryService{
		proximity:      proximity,
		restaurantRepo: restaurantRepo,
		orderRepo:      orderRepo,
		cache:          cache,
	}
}

// nearbyRanked resolves the band and joins restaurant attributes onto
// the proximity results, preserving ascending distance order.
func (s *RestaurantDiscoveryService) nearbyRanked(ctx context.Context, center entities.GeoPoint, minRadius, maxRadius float64) ([]entities.RankedRestaurant, error) {
	proximityResults, err := s.proximity.FindWithinRadius(ctx, center, minRadius, maxRadius)
	if err != nil {
		return nil, err
	}
	if len(proximityResults) == 0 {
		return []entities.RankedRestaurant{}, nil
	}

	ids := make([]string, len(proximityResults))
	for i, p := range proximityResults {
		ids[i] = p.RestaurantID
	}

	restaurants, err := s.restaurantRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.Restaurant, len(restaurants))
	for _, r := range restaurants {
		byID[r.ID] = r
	}

	ranked := make([]entities.RankedRestaurant, 0, len(proximityResults))
	for _, p := range proximityResults {
		r, ok := byID[p.RestaurantID]
		if !ok {
			continue
		}
		ranked = append(ranked, entities.RankedRestaurant{
			ID:                r.ID,
			Name:              r.Name,
			Rating:            r.Rating,
			NumberOfRatings:   r.NumberOfRatings,
			DistanceKm:        p.DistanceKm,
			Cuisines:          r.Cuisines,
			DiningCategories:  r.DiningCategories,
			Address:           r.Address,
			AverageCostForTwo: r.AvgCostForTwo,
			Images:            r.Images,
			MainImage:         r.MainImage,
			FoodType:          r.FoodType,
			Reviews:           r.Reviews,
			ModeSupported:     r.ModeSupported,
			RelevanceScore:    RelevanceScore(r.Rating, r.Reviews, r.NumberOfRatings, p.DistanceKm),
		})
	}

	return ranked, nil
}

// ListByMode returns the ranked discovery list for one serving mode
func (s *RestaurantDiscoveryService) ListByMode(ctx context.Context, mode string, req DiscoveryRequest) ([]entities.RankedRestaurant, error) {
	ranked, err := s.nearbyRanked(ctx, req.Center, req.MinRadius, req.MaxRadius)
	if err != nil {
		return nil, err
	}

	filtered := make([]entities.RankedRestaurant, 0, len(ranked))
	for _, r := range ranked {
		if !containsString(r.ModeSupported, mode) {
			continue
		}
		if req.FoodType != "" && !containsString(r.FoodType, req.FoodType) {
			continue
		}
		if req.DiningCategory != "" && !containsString(r.DiningCategories, req.DiningCategory) {
			continue
		}
		if req.MinRating > 0 && r.Rating < req.MinRating {
			continue
		}
		if req.MinCostForTwo > 0 && r.AverageCostForTwo < req.MinCostForTwo {
			continue
		}
		if req.MaxCostForTwo > 0 && r.AverageCostForTwo > req.MaxCostForTwo {
			continue
		}
		if cuisines := (FeedFilters{Cuisines: req.Cuisines}).CuisineList(); len(cuisines) > 0 {
			if !anyOverlap(r.Cuisines, cuisines) {
				continue
			}
		}
		filtered = append(filtered, r)
	}

	sortRanked(filtered, req.Sort)
	return filtered, nil
}

func sortRanked(list []entities.RankedRestaurant, criterion string) {
	switch criterion {
	case SortCostLowHigh:
		sort.SliceStable(list, func(i, j int) bool { return list[i].AverageCostForTwo < list[j].AverageCostForTwo })
	case SortCostHighLow:
		sort.SliceStable(list, func(i, j int) bool { return list[i].AverageCostForTwo > list[j].AverageCostForTwo })
	case SortRatingLowHigh:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Rating < list[j].Rating })
	case SortRatingHighLow, SortRating:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Rating > list[j].Rating })
	case SortDistance:
		sort.SliceStable(list, func(i, j int) bool { return list[i].DistanceKm < list[j].DistanceKm })
	default:
		sort.SliceStable(list, func(i, j int) bool { return list[i].RelevanceScore > list[j].RelevanceScore })
	}
}

// FindSimilar returns nearby restaurants ranked by cuisine and dining
// category overlap with the reference restaurant, excluding the
// reference itself.
func (s *RestaurantDiscoveryService) FindSimilar(ctx context.Context, center entities.GeoPoint, restaurantID string, minRadius, maxRadius float64) ([]entities.RankedRestaurant, error) {
	if restaurantID == "" {
		return nil, apperrors.NewValidationError("restaurantId is required")
	}

	fingerprint := geo.SimilarFingerprint(center.Latitude, center.Longitude, restaurantID)
	if cached, err := s.cache.Get(ctx, fingerprint); err == nil {
		var results []entities.RankedRestaurant
		if err := json.Unmarshal(cached, &results); err == nil {
			return results, nil
		}
		log.Warn().Str("fingerprint", fingerprint).Msg("Failed to unmarshal cached similar restaurants")
	}

	reference, err := s.restaurantRepo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	ranked, err := s.nearbyRanked(ctx, center, minRadius, maxRadius)
	if err != nil {
		return nil, err
	}

	type scored struct {
		restaurant entities.RankedRestaurant
		overlap    int
	}
	candidates := make([]scored, 0, len(ranked))
	for _, r := range ranked {
		if r.ID == reference.ID {
			continue
		}
		overlap := overlapCount(r.Cuisines, reference.Cuisines) + overlapCount(r.DiningCategories, reference.DiningCategories)
		if overlap == 0 {
			continue
		}
		candidates = append(candidates, scored{restaurant: r, overlap: overlap})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].overlap > candidates[j].overlap })

	results := make([]entities.RankedRestaurant, len(candidates))
	for i, c := range candidates {
		results[i] = c.restaurant
	}

	if data, err := json.Marshal(results); err == nil {
		if _, err := s.cache.SetNX(ctx, fingerprint, data, similarResultTTL); err != nil {
			log.Warn().Err(err).Str("fingerprint", fingerprint).Msg("Failed to cache similar restaurants")
		}
	}

	return results, nil
}

// FindPopular ranks nearby restaurants by order volume: most orders
// first, order amount as the tiebreaker.
func (s *RestaurantDiscoveryService) FindPopular(ctx context.Context, center entities.GeoPoint, minRadius, maxRadius float64) ([]entities.RankedRestaurant, error) {
	ranked, err := s.nearbyRanked(ctx, center, minRadius, maxRadius)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return ranked, nil
	}

	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}

	stats, err := s.orderRepo.PopularityStats(ctx, ids)
	if err != nil {
		return nil, err
	}
	statByID := make(map[string]entities.PopularityStat, len(stats))
	for _, st := range stats {
		statByID[st.RestaurantID] = st
	}

	for i := range ranked {
		if st, ok := statByID[ranked[i].ID]; ok {
			ranked[i].TotalOrders = st.TotalOrders
			ranked[i].TotalAmount = st.TotalAmount
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalOrders != ranked[j].TotalOrders {
			return ranked[i].TotalOrders > ranked[j].TotalOrders
		}
		return ranked[i].TotalAmount > ranked[j].TotalAmount
	})

	return ranked, nil
}

// PopularCuisines counts nearby restaurants per cuisine
func (s *RestaurantDiscoveryService) PopularCuisines(ctx context.Context, center entities.GeoPoint, minRadius, maxRadius float64) ([]entities.CuisineCount, error) {
	fingerprint := geo.PopularFingerprint(popularCuisinesPrefix, center.Latitude, center.Longitude)
	if cached, err := s.cache.Get(ctx, fingerprint); err == nil {
		var counts []entities.CuisineCount
		if err := json.Unmarshal(cached, &counts); err == nil {
			return counts, nil
		}
	}

	ranked, err := s.nearbyRanked(ctx, center, minRadius, maxRadius)
	if err != nil {
		return nil, err
	}

	tally := map[string]int{}
	for _, r := range ranked {
		for _, c := range r.Cuisines {
			tally[c]++
		}
	}

	counts := make([]entities.CuisineCount, 0, len(tally))
	for cuisine, count := range tally {
		counts = append(counts, entities.CuisineCount{Cuisine: cuisine, Count: count})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Cuisine < counts[j].Cuisine
	})

	s.cachePopular(ctx, fingerprint, counts)
	return counts, nil
}

// PopularCategories counts nearby restaurants per dining category
func (s *RestaurantDiscoveryService) PopularCategories(ctx context.Context, center entities.GeoPoint, minRadius, maxRadius float64) ([]entities.CategoryCount, error) {
	fingerprint := geo.PopularFingerprint(popularCategoriesPrefix, center.Latitude, center.Longitude)
	if cached, err := s.cache.Get(ctx, fingerprint); err == nil {
		var counts []entities.CategoryCount
		if err := json.Unmarshal(cached, &counts); err == nil {
			return counts, nil
		}
	}

	ranked, err := s.nearbyRanked(ctx, center, minRadius, maxRadius)
	if err != nil {
		return nil, err
	}

	tally := map[string]int{}
	for _, r := range ranked {
		for _, c := range r.DiningCategories {
			tally[c]++
		}
	}

	counts := make([]entities.CategoryCount, 0, len(tally))
	for category, count := range tally {
		counts = append(counts, entities.CategoryCount{Category: category, Count: count})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Category < counts[j].Category
	})

	s.cachePopular(ctx, fingerprint, counts)
	return counts, nil
}

// PopularLocations counts nearby restaurants per city
func (s *RestaurantDiscoveryService) PopularLocations(ctx context.Context, center entities.GeoPoint, minRadius, maxRadius float64) ([]entities.CityCount, error) {
	fingerprint := geo.PopularFingerprint(popularLocationsPrefix, center.Latitude, center.Longitude)
	if cached, err := s.cache.Get(ctx, fingerprint); err == nil {
		var counts []entities.CityCount
		if err := json.Unmarshal(cached, &counts); err == nil {
			return counts, nil
		}
	}

	ranked, err := s.nearbyRanked(ctx, center, minRadius, maxRadius)
	if err != nil {
		return nil, err
	}

	tally := map[string]int{}
	for _, r := range ranked {
		if r.Address.City != "" {
			tally[r.Address.City]++
		}
	}

	counts := make([]entities.CityCount, 0, len(tally))
	for city, count := range tally {
		counts = append(counts, entities.CityCount{City: city, Count: count})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].City < counts[j].City
	})

	s.cachePopular(ctx, fingerprint, counts)
	return counts, nil
}

func (s *RestaurantDiscoveryService) cachePopular(ctx context.Context, fingerprint string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if _, err := s.cache.SetNX(ctx, fingerprint, data, popularResultTTL); err != nil {
		log.Warn().Err(err).Str("fingerprint", fingerprint).Msg("Failed to cache popularity aggregate")
	}
}

// FindOutlets lists same-brand outlets near the user across the near
// and far bands, deduplicated and sorted by distance.
func (s *RestaurantDiscoveryService) FindOutlets(ctx context.Context, restaurantID string, center entities.GeoPoint) ([]entities.OutletSummary, error) {
	reference, err := s.restaurantRepo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if reference.BrandID == "" {
		return []entities.OutletSummary{}, nil
	}

	near, err := s.proximity.FindWithinRadius(ctx, center, 0, 5)
	if err != nil {
		return nil, err
	}
	far, err := s.proximity.FindWithinRadius(ctx, center, 5, 100)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	merged := make([]entities.ProximityResult, 0, len(near)+len(far))
	for _, p := range append(near, far...) {
		if _, dup := seen[p.RestaurantID]; dup {
			continue
		}
		seen[p.RestaurantID] = struct{}{}
		merged = append(merged, p)
	}

	ids := make([]string, len(merged))
	distanceByID := make(map[string]entities.ProximityResult, len(merged))
	for i, p := range merged {
		ids[i] = p.RestaurantID
		distanceByID[p.RestaurantID] = p
	}

	restaurants, err := s.restaurantRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	outlets := make([]entities.OutletSummary, 0)
	for _, r := range restaurants {
		if r.BrandID != reference.BrandID {
			continue
		}
		p := distanceByID[r.ID]
		outlets = append(outlets, entities.OutletSummary{
			Name:              r.Name,
			Images:            r.Images,
			MainImage:         r.MainImage,
			Rating:            r.Rating,
			DistanceKm:        p.DistanceKm,
			AverageCostForTwo: r.AvgCostForTwo,
			TimeMinutes:       p.DurationMinutes,
		})
	}

	sort.SliceStable(outlets, func(i, j int) bool { return outlets[i].DistanceKm < outlets[j].DistanceKm })
	return outlets, nil
}

// UpdateRating folds one new rating into the running average
func (s *RestaurantDiscoveryService) UpdateRating(ctx context.Context, restaurantID string, rating float64) (*entities.Restaurant, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}

	restaurant, err := s.restaurantRepo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	total := restaurant.Rating*float64(restaurant.NumberOfRatings) + rating
	restaurant.NumberOfRatings++
	restaurant.Rating = total / float64(restaurant.NumberOfRatings)

	if err := s.restaurantRepo.Update(ctx, restaurant); err != nil {
		return nil, err
	}

	return restaurant, nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func anyOverlap(a, b []string) bool {
	for _, x := range b {
		if containsString(a, x) {
			return true
		}
	}
	return false
}

func overlapCount(a, b []string) int {
	count := 0
	for _, x := range b {
		if containsString(a, x) {
			count++
		}
	}
	return count
}
