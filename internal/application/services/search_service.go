package services

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
	apperrors "github.com/savoraeats/savora-backend/pkg/errors"
)

// Search scope and result caps
const (
	searchRadiusKm = 5.0
	searchLimit    = 10
)

// SearchService serves typeahead suggestions scoped to restaurants
// near the user. A query matches restaurant names by substring,
// cuisines by prefix, and food items by the same rules with the item's
// restaurant folded into the restaurant results.
type SearchService struct {
	proximity      *ProximityService
	restaurantRepo repositories.RestaurantRepository
	foodItemRepo   repositories.FoodItemRepository
	searchRepo     repositories.RestaurantSearchRepository
}

// NewSearchService creates a new search service. searchRepo may be nil
// when no search engine is configured; the database fallback then
// serves restaurant matches.
func NewSearchService(
	proximity *ProximityService,
	restaurantRepo repositories.RestaurantRepository,
	foodItemRepo repositories.FoodItemRepository,
	searchRepo repositories.RestaurantSearchRepository,
) *SearchService {
	return &SearchService{
		proximity:      proximity,
		restaurantRepo: restaurantRepo,
		foodItemRepo:   foodItemRepo,
		searchRepo:     searchRepo,
	}
}

// Suggest returns nearby suggestions for a query
func (s *SearchService) Suggest(ctx context.Context, query string, center entities.GeoPoint) (*entities.SearchSuggestions, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("query is required")
	}

	nearby, err := s.proximity.FindWithinRadius(ctx, center, 0, searchRadiusKm)
	if err != nil {
		return nil, err
	}

	suggestions := &entities.SearchSuggestions{
		Restaurants: []entities.RestaurantSuggestion{},
		FoodItems:   []entities.FoodItemSuggestion{},
		Cuisines:    []string{},
	}
	if len(nearby) == 0 {
		return suggestions, nil
	}

	ids := make([]string, len(nearby))
	for i, p := range nearby {
		ids[i] = p.RestaurantID
	}

	restaurantHits := s.restaurantHits(ctx, query, ids)

	items, err := s.foodItemRepo.SuggestByNameOrCuisine(ctx, query, ids, searchLimit)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to search food items")
		items = nil
	}

	// Fold item hits into their parent restaurants so a dish match
	// also surfaces where to get it.
	itemRestaurantIDs := make([]string, 0, len(items))
	seenItemRestaurants := map[string]struct{}{}
	for _, item := range items {
		suggestions.FoodItems = append(suggestions.FoodItems, entities.FoodItemSuggestion{
			Name:      item.Name,
			MainImage: item.MainImage,
		})
		if _, dup := seenItemRestaurants[item.RestaurantID]; !dup {
			seenItemRestaurants[item.RestaurantID] = struct{}{}
			itemRestaurantIDs = append(itemRestaurantIDs, item.RestaurantID)
		}
	}

	if len(itemRestaurantIDs) > 0 {
		parents, err := s.restaurantRepo.GetByIDs(ctx, itemRestaurantIDs)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to load restaurants for food item hits")
		} else {
			for _, r := range parents {
				restaurantHits = append(restaurantHits, entities.RestaurantSuggestion{
					ID:              r.ID,
					Name:            r.Name,
					MainImage:       r.MainImage,
					Rating:          r.Rating,
					NumberOfRatings: r.NumberOfRatings,
					Cuisines:        r.Cuisines,
				})
			}
		}
	}

	seen := map[string]struct{}{}
	for _, hit := range restaurantHits {
		if _, dup := seen[hit.ID]; dup {
			continue
		}
		seen[hit.ID] = struct{}{}
		suggestions.Restaurants = append(suggestions.Restaurants, hit)
	}
	sort.SliceStable(suggestions.Restaurants, func(i, j int) bool {
		return suggestions.Restaurants[i].Rating > suggestions.Restaurants[j].Rating
	})
	if len(suggestions.Restaurants) > searchLimit {
		suggestions.Restaurants = suggestions.Restaurants[:searchLimit]
	}

	suggestions.Cuisines = s.cuisineMatches(ctx, query, ids)
	return suggestions, nil
}

// restaurantHits prefers the search engine and falls back to database
// matching when it is absent or failing.
func (s *SearchService) restaurantHits(ctx context.Context, query string, ids []string) []entities.RestaurantSuggestion {
	if s.searchRepo != nil {
		hits, err := s.searchRepo.Suggest(ctx, query, ids, searchLimit)
		if err == nil {
			return hits
		}
		log.Warn().Err(err).Msg("Search engine suggestion failed, falling back to database")
	}

	restaurants, err := s.restaurantRepo.SuggestByNameOrCuisine(ctx, query, ids, searchLimit)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to search restaurants")
		return nil
	}

	hits := make([]entities.RestaurantSuggestion, 0, len(restaurants))
	for _, r := range restaurants {
		hits = append(hits, entities.RestaurantSuggestion{
			ID:              r.ID,
			Name:            r.Name,
			MainImage:       r.MainImage,
			Rating:          r.Rating,
			NumberOfRatings: r.NumberOfRatings,
			Cuisines:        r.Cuisines,
		})
	}
	return hits
}

// cuisineMatches collects the distinct nearby cuisines the query is a
// prefix of.
func (s *SearchService) cuisineMatches(ctx context.Context, query string, ids []string) []string {
	restaurants, err := s.restaurantRepo.GetByIDs(ctx, ids)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load nearby restaurants for cuisine matches")
		return []string{}
	}

	lowered := strings.ToLower(query)
	seen := map[string]struct{}{}
	matches := []string{}
	for _, r := range restaurants {
		for _, cuisine := range r.Cuisines {
			if !strings.HasPrefix(strings.ToLower(cuisine), lowered) {
				continue
			}
			if _, dup := seen[cuisine]; dup {
				continue
			}
			seen[cuisine] = struct{}{}
			matches = append(matches, cuisine)
		}
	}
	sort.Strings(matches)
	return matches
}
