package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
	apperrors "github.com/savoraeats/savora-backend/pkg/errors"
)

// Feed sort criteria
const (
	SortRelevance   = "Relevance"
	SortRating      = "Rating"
	SortCostLowHigh = "Cost:Low to High"
	SortCostHighLow = "Cost:High to Low"
)

// Default call-to-action lines when a restaurant has no video-level CTA
const (
	defaultDeliveryCTA = "Order Now"
	defaultDiningCTA   = "Book Now"
)

// enrichmentWorkers bounds the per-restaurant fan-out while assembling
// feed entries.
const enrichmentWorkers = 8

// FeedRequest is one feed query
type FeedRequest struct {
	Center    entities.GeoPoint
	MinRadius float64
	MaxRadius float64
	Sort      string
	UserID    string
	Filters   FeedFilters
}

// FeedService assembles the personalized nearby feed: proximity
// resolution, attribute filtering, media/offer enrichment, relevance
// scoring and sorting.
type FeedService struct {
	proximity      *ProximityService
	restaurantRepo repositories.RestaurantRepository
	foodItemRepo   repositories.FoodItemRepository
	offerRepo      repositories.OfferRepository
	videoRepo      repositories.VideoRepository
}

// NewFeedService creates a new feed service
func NewFeedService(
	proximity *ProximityService,
	restaurantRepo repositories.RestaurantRepository,
	foodItemRepo repositories.FoodItemRepository,
	offerRepo repositories.OfferRepository,
	videoRepo repositories.VideoRepository,
) *FeedService {
	return &FeedService{
		proximity:      proximity,
		restaurantRepo: restaurantRepo,
		foodItemRepo:   foodItemRepo,
		offerRepo:      offerRepo,
		videoRepo:      videoRepo,
	}
}

// GetFeed resolves nearby restaurants, applies the filter chain and
// assembles dining and delivery entries. Delivery entries come first
// unless the dining mode was requested, which flips the family order.
func (s *FeedService) GetFeed(ctx context.Context, req FeedRequest) ([]entities.FeedEntry, error) {
	proximityResults, err := s.proximity.FindWithinRadius(ctx, req.Center, req.MinRadius, req.MaxRadius)
	if err != nil {
		return nil, err
	}
	if len(proximityResults) == 0 {
		return []entities.FeedEntry{}, nil
	}

	ids := make([]string, len(proximityResults))
	distanceByID := make(map[string]entities.ProximityResult, len(proximityResults))
	for i, p := range proximityResults {
		ids[i] = p.RestaurantID
		distanceByID[p.RestaurantID] = p
	}

	restaurants, err := s.restaurantRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	restaurants = ApplyRestaurantFilters(restaurants, req.Filters)
	if len(restaurants) == 0 {
		return []entities.FeedEntry{}, nil
	}

	// Proximity order is the canonical candidate order; GetByIDs gives
	// no ordering guarantee.
	byID := make(map[string]*entities.Restaurant, len(restaurants))
	for _, r := range restaurants {
		byID[r.ID] = r
	}
	ordered := make([]*entities.Restaurant, 0, len(restaurants))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}

	likedVideos := s.likedVideoSet(ctx, req.UserID)

	// Both families are always assembled over the filtered set; the
	// mode criterion already narrowed membership in the filter chain.
	deliveryEntries := s.assembleDelivery(ctx, ordered, distanceByID, likedVideos, req.Filters)
	diningEntries := s.assembleDining(ctx, ordered, distanceByID, likedVideos)

	sortEntries(deliveryEntries, req.Sort)
	sortEntries(diningEntries, req.Sort)

	feed := make([]entities.FeedEntry, 0, len(deliveryEntries)+len(diningEntries))
	if req.Filters.Mode == entities.ModeDining {
		feed = append(feed, diningEntries...)
		feed = append(feed, deliveryEntries...)
	} else {
		feed = append(feed, deliveryEntries...)
		feed = append(feed, diningEntries...)
	}
	return feed, nil
}

func (s *FeedService) likedVideoSet(ctx context.Context, userID string) map[string]struct{} {
	if userID == "" {
		return nil
	}
	ids, err := s.videoRepo.LikedVideoIDs(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to load liked videos")
		return nil
	}
	liked := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		liked[id] = struct{}{}
	}
	return liked
}

// assembleDelivery builds exactly one entry per restaurant,
// aggregating the delivery clips of its qualifying food items. Items
// are narrowed by the same foodType and cuisines criteria as the
// restaurants so a filtered feed never carries a non-matching item's
// media. Per-restaurant enrichment failures degrade to an entry
// without media rather than failing the feed.
func (s *FeedService) assembleDelivery(ctx context.Context, restaurants []*entities.Restaurant, distances map[string]entities.ProximityResult, liked map[string]struct{}, filters FeedFilters) []entities.FeedEntry {
	entries := make([]*entities.FeedEntry, len(restaurants))

	s.forEachRestaurant(restaurants, func(i int, r *entities.Restaurant) {
		prox := distances[r.ID]

		items, err := s.foodItemRepo.ListByRestaurant(ctx, r.ID)
		if err != nil {
			log.Warn().Err(err).Str("restaurant_id", r.ID).Msg("Failed to load food items for feed")
			items = nil
		}
		items = ApplyFoodItemFilters(items, filters)

		entry := entities.FeedEntry{
			Type:               entities.FeedTypeDelivery,
			RestaurantID:       r.ID,
			RestaurantName:     r.Name,
			Distance:           prox.DistanceKm,
			DistanceUnit:       "km",
			SpendCost:          r.AvgCostForTwo,
			Address:            r.Address.ShortAddress(),
			RestaurantRating:   r.Rating,
			RestaurantFoodType: r.FoodType,
			CTAText:            defaultDeliveryCTA,
			VideosData:         []entities.VideoData{},
			RelevanceScore:     RelevanceScore(r.Rating, r.Reviews, r.NumberOfRatings, prox.DistanceKm),
		}

		foodTypes := make([]string, 0, len(items))
		for _, item := range items {
			videos, err := s.videoRepo.ListForFoodItem(ctx, item.ID)
			if err != nil {
				log.Warn().Err(err).Str("food_item_id", item.ID).Msg("Failed to load food item videos")
				continue
			}
			if len(videos) == 0 {
				continue
			}

			offers := s.foodItemOffers(ctx, item.ID)
			foodTypes = append(foodTypes, item.Type)

			for _, v := range videos {
				_, isLiked := liked[v.ID]
				entry.VideosData = append(entry.VideosData, entities.VideoData{
					VideoID:   v.ID,
					VideoLink: v.Link,
					Cost:      item.DiscountedCost,
					FoodType:  item.Type,
					Likes:     v.Likes,
					Liked:     isLiked,
					Comments:  v.Comments,
					Rating:    item.Rating,
					Offers:    offers,
				})
				if v.CTAText != "" {
					entry.CTAText = v.CTAText
				}
			}
		}

		if len(entry.VideosData) == 0 {
			return
		}
		entry.FoodTypes = foodTypes
		entries[i] = &entry
	})

	return collectEntries(entries)
}

// assembleDining builds one entry per restaurant with its
// restaurant-level clips and offers.
func (s *FeedService) assembleDining(ctx context.Context, restaurants []*entities.Restaurant, distances map[string]entities.ProximityResult, liked map[string]struct{}) []entities.FeedEntry {
	entries := make([]*entities.FeedEntry, len(restaurants))

	s.forEachRestaurant(restaurants, func(i int, r *entities.Restaurant) {
		prox := distances[r.ID]

		entry := entities.FeedEntry{
			Type:           entities.FeedTypeDining,
			RestaurantID:   r.ID,
			RestaurantName: r.Name,
			Distance:       prox.DistanceKm,
			DistanceUnit:   "km",
			SpendCost:      r.AvgCostForTwo,
			NumberOfPeople: 2,
			Address:        r.Address.ShortAddress(),
			Rating:         r.Rating,
			FoodType:       r.FoodType,
			Offers:         s.restaurantOffers(ctx, r.ID),
			CTAText:        defaultDiningCTA,
			VideosData:     []entities.VideoData{},
			RelevanceScore: RelevanceScore(r.Rating, r.Reviews, r.NumberOfRatings, prox.DistanceKm),
		}

		videos, err := s.videoRepo.ListForRestaurant(ctx, r.ID)
		if err != nil {
			log.Warn().Err(err).Str("restaurant_id", r.ID).Msg("Failed to load restaurant videos")
			videos = nil
		}
		for _, v := range videos {
			_, isLiked := liked[v.ID]
			entry.VideosData = append(entry.VideosData, entities.VideoData{
				VideoID:   v.ID,
				VideoLink: v.Link,
				Likes:     v.Likes,
				Liked:     isLiked,
				Comments:  v.Comments,
			})
			if v.CTAText != "" {
				entry.CTAText = v.CTAText
			}
		}

		entries[i] = &entry
	})

	return collectEntries(entries)
}

// forEachRestaurant fans the given function out over a bounded worker
// pool, one call per restaurant.
func (s *FeedService) forEachRestaurant(restaurants []*entities.Restaurant, fn func(i int, r *entities.Restaurant)) {
	sem := make(chan struct{}, enrichmentWorkers)
	var wg sync.WaitGroup

	for i, r := range restaurants {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, r *entities.Restaurant) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(i, r)
		}(i, r)
	}

	wg.Wait()
}

func collectEntries(entries []*entities.FeedEntry) []entities.FeedEntry {
	out := make([]entities.FeedEntry, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			out = append(out, *e)
		}
	}
	return out
}

func (s *FeedService) restaurantOffers(ctx context.Context, restaurantID string) []entities.OfferSummary {
	offers, err := s.offerRepo.ListForRestaurant(ctx, restaurantID)
	if err != nil {
		log.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("Failed to load restaurant offers")
		return nil
	}
	return summarizeOffers(offers)
}

func (s *FeedService) foodItemOffers(ctx context.Context, foodItemID string) []entities.OfferSummary {
	offers, err := s.offerRepo.ListForFoodItem(ctx, foodItemID)
	if err != nil {
		log.Warn().Err(err).Str("food_item_id", foodItemID).Msg("Failed to load food item offers")
		return nil
	}
	return summarizeOffers(offers)
}

func summarizeOffers(offers []*entities.Offer) []entities.OfferSummary {
	nowMillis := time.Now().UnixMilli()
	summaries := make([]entities.OfferSummary, 0, len(offers))
	for _, o := range offers {
		if !o.IsActiveAt(nowMillis) {
			continue
		}
		summaries = append(summaries, entities.OfferSummary{
			Type:  o.Type,
			Value: o.Description,
		})
	}
	return summaries
}

// sortEntries orders one feed family in place by the requested
// criterion. Relevance is the default.
func sortEntries(entries []entities.FeedEntry, criterion string) {
	switch criterion {
	case SortRating:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].SortRating() > entries[j].SortRating()
		})
	case SortCostLowHigh:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].SpendCost < entries[j].SpendCost
		})
	case SortCostHighLow:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].SpendCost > entries[j].SpendCost
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].RelevanceScore > entries[j].RelevanceScore
		})
	}
}

// ValidateFeedRequest rejects feed queries without a usable position
func ValidateFeedRequest(req FeedRequest) error {
	if req.Center.Latitude == 0 && req.Center.Longitude == 0 {
		return apperrors.NewValidationError("latitude and longitude are required")
	}
	return nil
}
