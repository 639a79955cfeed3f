package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savoraeats/savora-backend/internal/application/services"
	"github.com/savoraeats/savora-backend/internal/domain/entities"
	apperrors "github.com/savoraeats/savora-backend/pkg/errors"
)

type feedFixture struct {
	svc     *services.FeedService
	routing *stubRouting
	videos  *stubVideoRepo
}

// newFeedFixture wires two delivery+dining restaurants near the
// center, each with two food items carrying one delivery clip apiece,
// plus one dining clip and one active restaurant offer per restaurant.
func newFeedFixture() *feedFixture {
	restaurants := []*entities.Restaurant{
		{
			ID:              "rest-a",
			Name:            "Restaurant A",
			Location:        nearLoc,
			Rating:          4.5,
			Reviews:         100,
			NumberOfRatings: 900,
			FoodType:        []string{"veg", "non-veg"},
			ModeSupported:   []string{entities.ModeDelivery, entities.ModeDining},
			AvgCostForTwo:   600,
			Address:         entities.Address{StreetAddress: "1 Main St", City: "Bengaluru"},
			IsActive:        true,
		},
		{
			ID:              "rest-b",
			Name:            "Restaurant B",
			Location:        farLoc,
			Rating:          4.0,
			Reviews:         50,
			NumberOfRatings: 400,
			FoodType:        []string{"non-veg"},
			ModeSupported:   []string{entities.ModeDelivery, entities.ModeDining},
			AvgCostForTwo:   900,
			Address:         entities.Address{StreetAddress: "2 High St", City: "Bengaluru"},
			IsActive:        true,
		},
	}

	repo := &stubRestaurantRepo{restaurants: restaurants}
	routing := &stubRouting{
		distances: map[entities.GeoPoint]float64{
			nearLoc: 3200,
			farLoc:  7100,
		},
	}

	items := &stubFoodItemRepo{}
	videos := &stubVideoRepo{}
	offers := &stubOfferRepo{}

	now := time.Now()
	for _, r := range restaurants {
		for _, suffix := range []string{"item-1", "item-2"} {
			itemID := r.ID + "-" + suffix
			items.items = append(items.items, &entities.FoodItem{
				ID:             itemID,
				RestaurantID:   r.ID,
				Name:           suffix,
				Type:           "veg",
				Rating:         4.2,
				ActualCost:     300,
				DiscountedCost: 250,
			})
			videos.videos = append(videos.videos, &entities.Video{
				ID:           itemID + "-video",
				RestaurantID: r.ID,
				FoodItemID:   itemID,
				Link:         "https://cdn.example/" + itemID + ".mp4",
				Type:         entities.VideoTypeDelivery,
				Likes:        10,
			})
			offers.offers = append(offers.offers, &entities.Offer{
				ID:           itemID + "-offer",
				Type:         entities.OfferTypeFoodItem,
				RestaurantID: r.ID,
				FoodItemID:   itemID,
				Description:  "20% off",
				StartDate:    now.Add(-time.Hour).UnixMilli(),
				EndDate:      now.Add(time.Hour).UnixMilli(),
				Status:       entities.OfferStatusActive,
				Amount:       50,
			})
		}

		videos.videos = append(videos.videos, &entities.Video{
			ID:           r.ID + "-dining-video",
			RestaurantID: r.ID,
			Link:         "https://cdn.example/" + r.ID + ".mp4",
			Type:         entities.VideoTypeDining,
			Likes:        30,
		})
		offers.offers = append(offers.offers, &entities.Offer{
			ID:           r.ID + "-offer",
			Type:         entities.OfferTypeRestaurant,
			RestaurantID: r.ID,
			Description:  "Flat 100 off",
			StartDate:    now.Add(-time.Hour).UnixMilli(),
			EndDate:      now.Add(time.Hour).UnixMilli(),
			Status:       entities.OfferStatusActive,
			Amount:       100,
		})
	}

	proximity := services.NewProximityService(repo, newMemoryCache(), routing, time.Second)
	svc := services.NewFeedService(proximity, repo, items, offers, videos)
	return &feedFixture{svc: svc, routing: routing, videos: videos}
}

func feedRequest() services.FeedRequest {
	return services.FeedRequest{
		Center:    proximityCenter,
		MinRadius: 0,
		MaxRadius: 10,
	}
}

func entriesOfType(feed []entities.FeedEntry, entryType string) []entities.FeedEntry {
	out := make([]entities.FeedEntry, 0, len(feed))
	for _, e := range feed {
		if e.Type == entryType {
			out = append(out, e)
		}
	}
	return out
}

func TestGetFeed_OneDeliveryEntryPerRestaurant(t *testing.T) {
	fx := newFeedFixture()

	feed, err := fx.svc.GetFeed(context.Background(), feedRequest())
	require.NoError(t, err)

	delivery := entriesOfType(feed, entities.FeedTypeDelivery)
	require.Len(t, delivery, 2)
	for _, entry := range delivery {
		assert.Len(t, entry.VideosData, 2)
		assert.Equal(t, "Order Now", entry.CTAText)
		for _, v := range entry.VideosData {
			assert.Equal(t, 250.0, v.Cost)
			require.Len(t, v.Offers, 1)
			assert.Equal(t, "20% off", v.Offers[0].Value)
		}
	}
}

func TestGetFeed_DeliveryEntriesPrecedeDining(t *testing.T) {
	fx := newFeedFixture()

	feed, err := fx.svc.GetFeed(context.Background(), feedRequest())
	require.NoError(t, err)

	require.Len(t, feed, 4)
	assert.Equal(t, entities.FeedTypeDelivery, feed[0].Type)
	assert.Equal(t, entities.FeedTypeDelivery, feed[1].Type)
	assert.Equal(t, entities.FeedTypeDining, feed[2].Type)
	assert.Equal(t, entities.FeedTypeDining, feed[3].Type)
}

func TestGetFeed_DiningEntriesCarryOffersAndDefaults(t *testing.T) {
	fx := newFeedFixture()

	feed, err := fx.svc.GetFeed(context.Background(), feedRequest())
	require.NoError(t, err)

	dining := entriesOfType(feed, entities.FeedTypeDining)
	require.Len(t, dining, 2)
	for _, entry := range dining {
		assert.Equal(t, 2, entry.NumberOfPeople)
		assert.Equal(t, "Book Now", entry.CTAText)
		require.Len(t, entry.Offers, 1)
		assert.Equal(t, "Flat 100 off", entry.Offers[0].Value)
		assert.Len(t, entry.VideosData, 1)
	}
}

func TestGetFeed_DefaultSortIsRelevanceDescending(t *testing.T) {
	fx := newFeedFixture()

	feed, err := fx.svc.GetFeed(context.Background(), feedRequest())
	require.NoError(t, err)

	delivery := entriesOfType(feed, entities.FeedTypeDelivery)
	require.Len(t, delivery, 2)
	assert.GreaterOrEqual(t, delivery[0].RelevanceScore, delivery[1].RelevanceScore)
	// rest-a has the higher rating, review volume and proximity
	assert.Equal(t, "rest-a", delivery[0].RestaurantID)
}

func TestGetFeed_SortByCostLowHigh(t *testing.T) {
	fx := newFeedFixture()

	req := feedRequest()
	req.Sort = services.SortCostLowHigh
	feed, err := fx.svc.GetFeed(context.Background(), req)
	require.NoError(t, err)

	delivery := entriesOfType(feed, entities.FeedTypeDelivery)
	require.Len(t, delivery, 2)
	assert.LessOrEqual(t, delivery[0].SpendCost, delivery[1].SpendCost)
}

func TestGetFeed_DiningModePutsDiningFirst(t *testing.T) {
	fx := newFeedFixture()

	// Mode narrows restaurant membership in the filter chain and then
	// flips the family order; both families are still assembled.
	req := feedRequest()
	req.Filters.Mode = entities.ModeDining
	feed, err := fx.svc.GetFeed(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, feed, 4)
	assert.Equal(t, entities.FeedTypeDining, feed[0].Type)
	assert.Equal(t, entities.FeedTypeDining, feed[1].Type)
	assert.Equal(t, entities.FeedTypeDelivery, feed[2].Type)
	assert.Equal(t, entities.FeedTypeDelivery, feed[3].Type)
}

// cuisineFeedService wires one dual-cuisine restaurant whose two items
// carry one cuisine and one delivery clip each.
func cuisineFeedService() *services.FeedService {
	restaurant := &entities.Restaurant{
		ID:            "rest-mix",
		Name:          "Mixed Kitchen",
		Location:      nearLoc,
		Rating:        4.3,
		Cuisines:      []string{"Chinese", "Mexican"},
		FoodType:      []string{"veg", "non-veg"},
		ModeSupported: []string{entities.ModeDelivery, entities.ModeDining},
		AvgCostForTwo: 500,
		IsActive:      true,
	}
	repo := &stubRestaurantRepo{restaurants: []*entities.Restaurant{restaurant}}
	routing := &stubRouting{distances: map[entities.GeoPoint]float64{nearLoc: 3200}}
	items := &stubFoodItemRepo{}
	videos := &stubVideoRepo{}
	for _, item := range []struct {
		id, cuisine, foodType string
	}{
		{"item-cn", "Chinese", "non-veg"},
		{"item-mx", "Mexican", "veg"},
	} {
		items.items = append(items.items, &entities.FoodItem{
			ID:             item.id,
			RestaurantID:   restaurant.ID,
			Name:           item.id,
			Type:           item.foodType,
			Cuisines:       []string{item.cuisine},
			DiscountedCost: 200,
		})
		videos.videos = append(videos.videos, &entities.Video{
			ID:           item.id + "-video",
			RestaurantID: restaurant.ID,
			FoodItemID:   item.id,
			Link:         "https://cdn.example/" + item.id + ".mp4",
			Type:         entities.VideoTypeDelivery,
		})
	}
	proximity := services.NewProximityService(repo, newMemoryCache(), routing, time.Second)
	return services.NewFeedService(proximity, repo, items, &stubOfferRepo{}, videos)
}

func TestGetFeed_CuisineFilterNarrowsItemMedia(t *testing.T) {
	svc := cuisineFeedService()

	req := feedRequest()
	req.Filters.Cuisines = "Chinese"
	feed, err := svc.GetFeed(context.Background(), req)
	require.NoError(t, err)

	delivery := entriesOfType(feed, entities.FeedTypeDelivery)
	require.Len(t, delivery, 1)
	require.Len(t, delivery[0].VideosData, 1)
	assert.Equal(t, "item-cn-video", delivery[0].VideosData[0].VideoID)
}

func TestGetFeed_FoodTypeFilterNarrowsItemMedia(t *testing.T) {
	svc := cuisineFeedService()

	req := feedRequest()
	req.Filters.FoodType = "veg"
	feed, err := svc.GetFeed(context.Background(), req)
	require.NoError(t, err)

	delivery := entriesOfType(feed, entities.FeedTypeDelivery)
	require.Len(t, delivery, 1)
	require.Len(t, delivery[0].VideosData, 1)
	assert.Equal(t, "item-mx-video", delivery[0].VideosData[0].VideoID)
}

func TestGetFeed_ItemWithoutVideosYieldsNoDeliveryEntry(t *testing.T) {
	fx := newFeedFixture()
	// Strip every delivery clip; dining clips stay
	kept := fx.videos.videos[:0]
	for _, v := range fx.videos.videos {
		if v.Type == entities.VideoTypeDining {
			kept = append(kept, v)
		}
	}
	fx.videos.videos = kept

	feed, err := fx.svc.GetFeed(context.Background(), feedRequest())
	require.NoError(t, err)

	assert.Empty(t, entriesOfType(feed, entities.FeedTypeDelivery))
	assert.Len(t, entriesOfType(feed, entities.FeedTypeDining), 2)
}

func TestGetFeed_MarksLikedVideos(t *testing.T) {
	fx := newFeedFixture()
	fx.videos.liked = []string{"rest-a-item-1-video"}

	req := feedRequest()
	req.UserID = "user-1"
	feed, err := fx.svc.GetFeed(context.Background(), req)
	require.NoError(t, err)

	likedCount := 0
	for _, entry := range feed {
		for _, v := range entry.VideosData {
			if v.Liked {
				likedCount++
				assert.Equal(t, "rest-a-item-1-video", v.VideoID)
			}
		}
	}
	assert.Equal(t, 1, likedCount)
}

func TestGetFeed_EmptyBandYieldsEmptyFeed(t *testing.T) {
	fx := newFeedFixture()

	req := feedRequest()
	req.MinRadius = 9
	req.MaxRadius = 3
	feed, err := fx.svc.GetFeed(context.Background(), req)
	require.NoError(t, err)

	assert.Empty(t, feed)
	assert.Equal(t, 0, fx.routing.callCount())
}

func TestValidateFeedRequest_RequiresPosition(t *testing.T) {
	err := services.ValidateFeedRequest(services.FeedRequest{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	assert.NoError(t, services.ValidateFeedRequest(feedRequest()))
}
