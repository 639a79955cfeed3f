package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savoraeats/savora-backend/internal/application/services"
	"github.com/savoraeats/savora-backend/internal/domain/entities"
	apperrors "github.com/savoraeats/savora-backend/pkg/errors"
)

// stubSearchRepo is a canned search-engine index
type stubSearchRepo struct {
	hits  []entities.RestaurantSuggestion
	err   error
	calls int
}

func (r *stubSearchRepo) InitSchema(ctx context.Context) error { return nil }

func (r *stubSearchRepo) Index(ctx context.Context, restaurant *entities.Restaurant) error {
	return nil
}

func (r *stubSearchRepo) Delete(ctx context.Context, id string) error { return nil }

func (r *stubSearchRepo) Suggest(ctx context.Context, query string, ids []string, limit int) ([]entities.RestaurantSuggestion, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.hits, nil
}

func searchFixture() (*stubRestaurantRepo, *stubFoodItemRepo, *stubRouting) {
	repo := &stubRestaurantRepo{
		restaurants: []*entities.Restaurant{
			{
				ID:       "rest-dosa",
				Name:     "Dosa Palace",
				Location: nearLoc,
				Rating:   4.2,
				Cuisines: []string{"South Indian"},
				IsActive: true,
			},
			{
				ID:       "rest-biryani",
				Name:     "Biryani House",
				Location: entities.GeoPoint{Latitude: 12.91, Longitude: 77.62},
				Rating:   4.7,
				Cuisines: []string{"Biryani", "Andhra"},
				IsActive: true,
			},
			// Matches by name but sits beyond the search radius by road
			{
				ID:       "rest-away",
				Name:     "Dosa Corner",
				Location: farLoc,
				Rating:   4.9,
				Cuisines: []string{"South Indian"},
				IsActive: true,
			},
		},
	}
	items := &stubFoodItemRepo{
		items: []*entities.FoodItem{
			{
				ID:           "item-masala-dosa",
				RestaurantID: "rest-biryani",
				Name:         "Masala Dosa",
				MainImage:    "masala-dosa.jpg",
				Cuisines:     []string{"South Indian"},
			},
		},
	}
	routing := &stubRouting{
		distances: map[entities.GeoPoint]float64{
			nearLoc: 3200,
			farLoc:  7100,
		},
	}
	return repo, items, routing
}

func newSearchService(repo *stubRestaurantRepo, items *stubFoodItemRepo, routing *stubRouting, searchRepo *stubSearchRepo) *services.SearchService {
	proximity := services.NewProximityService(repo, newMemoryCache(), routing, time.Second)
	if searchRepo == nil {
		return services.NewSearchService(proximity, repo, items, nil)
	}
	return services.NewSearchService(proximity, repo, items, searchRepo)
}

func TestSuggest_RejectsEmptyQuery(t *testing.T) {
	repo, items, routing := searchFixture()
	svc := newSearchService(repo, items, routing, nil)

	_, err := svc.Suggest(context.Background(), "   ", proximityCenter)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	assert.Equal(t, 0, routing.callCount())
}

func TestSuggest_DatabaseFallbackFoldsItemHits(t *testing.T) {
	repo, items, routing := searchFixture()
	svc := newSearchService(repo, items, routing, nil)

	got, err := svc.Suggest(context.Background(), "dosa", proximityCenter)

	require.NoError(t, err)
	require.Len(t, got.FoodItems, 1)
	assert.Equal(t, "Masala Dosa", got.FoodItems[0].Name)
	assert.Equal(t, "masala-dosa.jpg", got.FoodItems[0].MainImage)

	// The direct name hit plus the item's parent, rating descending.
	// The out-of-radius Dosa Corner never appears.
	require.Len(t, got.Restaurants, 2)
	assert.Equal(t, "rest-biryani", got.Restaurants[0].ID)
	assert.Equal(t, "rest-dosa", got.Restaurants[1].ID)
}

func TestSuggest_DedupesParentAlreadyMatched(t *testing.T) {
	repo, items, routing := searchFixture()
	items.items = append(items.items, &entities.FoodItem{
		ID:           "item-cheese-dosa",
		RestaurantID: "rest-dosa",
		Name:         "Cheese Dosa",
		Cuisines:     []string{"South Indian"},
	})
	svc := newSearchService(repo, items, routing, nil)

	got, err := svc.Suggest(context.Background(), "dosa", proximityCenter)

	require.NoError(t, err)
	assert.Len(t, got.FoodItems, 2)
	ids := make([]string, 0, len(got.Restaurants))
	for _, hit := range got.Restaurants {
		ids = append(ids, hit.ID)
	}
	assert.ElementsMatch(t, []string{"rest-dosa", "rest-biryani"}, ids)
}

func TestSuggest_CuisinePrefixMatches(t *testing.T) {
	repo, items, routing := searchFixture()
	svc := newSearchService(repo, items, routing, nil)

	got, err := svc.Suggest(context.Background(), "sou", proximityCenter)

	require.NoError(t, err)
	assert.Equal(t, []string{"South Indian"}, got.Cuisines)

	// The prefix matches both the restaurant carrying the cuisine and
	// the food item tagged with it, whose parent folds in too.
	require.Len(t, got.FoodItems, 1)
	assert.Equal(t, "Masala Dosa", got.FoodItems[0].Name)
	require.Len(t, got.Restaurants, 2)
	assert.Equal(t, "rest-biryani", got.Restaurants[0].ID)
	assert.Equal(t, "rest-dosa", got.Restaurants[1].ID)
}

func TestSuggest_PrefersSearchEngine(t *testing.T) {
	repo, items, routing := searchFixture()
	engine := &stubSearchRepo{
		hits: []entities.RestaurantSuggestion{
			{ID: "rest-biryani", Name: "Biryani House", Rating: 4.7},
		},
	}
	svc := newSearchService(repo, items, routing, engine)

	got, err := svc.Suggest(context.Background(), "biryani", proximityCenter)

	require.NoError(t, err)
	assert.Equal(t, 1, engine.calls)
	require.Len(t, got.Restaurants, 1)
	assert.Equal(t, "rest-biryani", got.Restaurants[0].ID)
}

func TestSuggest_FallsBackWhenEngineFails(t *testing.T) {
	repo, items, routing := searchFixture()
	engine := &stubSearchRepo{err: errors.New("typesense unreachable")}
	svc := newSearchService(repo, items, routing, engine)

	got, err := svc.Suggest(context.Background(), "biryani", proximityCenter)

	require.NoError(t, err)
	assert.Equal(t, 1, engine.calls)
	require.Len(t, got.Restaurants, 1)
	assert.Equal(t, "rest-biryani", got.Restaurants[0].ID)
}

func TestSuggest_CapsRestaurantResults(t *testing.T) {
	repo := &stubRestaurantRepo{}
	for i := 0; i < 12; i++ {
		repo.restaurants = append(repo.restaurants, &entities.Restaurant{
			ID:       fmt.Sprintf("rest-%02d", i),
			Name:     fmt.Sprintf("Dosa Spot %02d", i),
			Location: nearLoc,
			Rating:   3.0 + float64(i)*0.1,
			IsActive: true,
		})
	}
	items := &stubFoodItemRepo{}
	routing := &stubRouting{distances: map[entities.GeoPoint]float64{nearLoc: 3200}}
	svc := newSearchService(repo, items, routing, nil)

	got, err := svc.Suggest(context.Background(), "dosa", proximityCenter)

	require.NoError(t, err)
	assert.Len(t, got.Restaurants, 10)
}

func TestSuggest_NothingNearbyIsEmptyNotError(t *testing.T) {
	repo, items, routing := searchFixture()
	svc := newSearchService(repo, items, routing, nil)

	remote := entities.GeoPoint{Latitude: 28.6, Longitude: 77.2}
	got, err := svc.Suggest(context.Background(), "dosa", remote)

	require.NoError(t, err)
	assert.Empty(t, got.Restaurants)
	assert.Empty(t, got.FoodItems)
	assert.Empty(t, got.Cuisines)
}
