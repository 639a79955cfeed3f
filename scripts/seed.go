package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/savoraeats/savora-backend/internal/adapters/database"
	"github.com/savoraeats/savora-backend/internal/adapters/search"
	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
	"github.com/savoraeats/savora-backend/internal/infrastructure/clients/postgres"
	"github.com/savoraeats/savora-backend/internal/infrastructure/clients/typesense"
	"github.com/savoraeats/savora-backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	var searchRepo repositories.RestaurantSearchRepository
	if err == nil {
		searchRepo = search.NewTypesenseAdapter(tsClient)
		if err := searchRepo.InitSchema(ctx); err != nil {
			log.Printf("Failed to init search schema: %v", err)
		}
	}

	restaurantRepo := database.NewRestaurantAdapter(pgClient)
	foodItemRepo := database.NewFoodItemAdapter(pgClient)
	offerRepo := database.NewOfferAdapter(pgClient)
	videoRepo := database.NewVideoAdapter(pgClient)

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				user_video_likes,
				videos,
				offers,
				charges,
				orders,
				food_items,
				restaurants
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	now := time.Now()
	brandID := uuid.New().String()

	restaurants := []entities.Restaurant{
		{
			ID:      uuid.New().String(),
			BrandID: brandID,
			Name:    "Nagarjuna",
			Address: entities.Address{
				StreetAddress: "44/1 Residency Road", City: "Bengaluru", State: "Karnataka", ZipCode: "560025",
			},
			Location:         entities.GeoPoint{Latitude: 12.9716, Longitude: 77.6099},
			Rating:           4.3,
			NumberOfRatings:  5200,
			Reviews:          1800,
			FoodType:         []string{"non-veg", "veg"},
			Cuisines:         []string{"Andhra", "South Indian", "Biryani"},
			ModeSupported:    []string{entities.ModeDelivery, entities.ModeDining},
			DiningCategories: []string{"Family Dining", "Casual Dining"},
			PopularDishes:    []string{"Andhra Meals", "Chicken Biryani"},
			AvgCostForTwo:    800,
			AvgCostForFour:   1500,
		},
		{
			ID:      uuid.New().String(),
			BrandID: brandID,
			Name:    "Nagarjuna Indiranagar",
			Address: entities.Address{
				StreetAddress: "100 Feet Road", City: "Bengaluru", State: "Karnataka", ZipCode: "560038",
			},
			Location:         entities.GeoPoint{Latitude: 12.9719, Longitude: 77.6412},
			Rating:           4.1,
			NumberOfRatings:  3100,
			Reviews:          950,
			FoodType:         []string{"non-veg", "veg"},
			Cuisines:         []string{"Andhra", "South Indian"},
			ModeSupported:    []string{entities.ModeDelivery},
			DiningCategories: []string{"Casual Dining"},
			AvgCostForTwo:    750,
		},
		{
			ID:      uuid.New().String(),
			BrandID: uuid.New().String(),
			Name:    "Green Theory",
			Address: entities.Address{
				StreetAddress: "13 Convent Road", City: "Bengaluru", State: "Karnataka", ZipCode: "560025",
			},
			Location:         entities.GeoPoint{Latitude: 12.9667, Longitude: 77.6014},
			Rating:           4.5,
			NumberOfRatings:  2400,
			Reviews:          1100,
			FoodType:         []string{"veg"},
			Cuisines:         []string{"Continental", "Italian", "Cafe"},
			ModeSupported:    []string{entities.ModeDining},
			DiningCategories: []string{"Cafe", "Outdoor Seating"},
			AvgCostForTwo:    900,
		},
		{
			ID:      uuid.New().String(),
			BrandID: uuid.New().String(),
			Name:    "Meghana Foods",
			Address: entities.Address{
				StreetAddress: "57 Residency Road", City: "Bengaluru", State: "Karnataka", ZipCode: "560025",
			},
			Location:         entities.GeoPoint{Latitude: 12.9702, Longitude: 77.6069},
			Rating:           4.4,
			NumberOfRatings:  9800,
			Reviews:          4200,
			FoodType:         []string{"non-veg"},
			Cuisines:         []string{"Biryani", "Andhra", "North Indian"},
			ModeSupported:    []string{entities.ModeDelivery, entities.ModeDining},
			DiningCategories: []string{"Casual Dining"},
			PopularDishes:    []string{"Boneless Chicken Biryani"},
			AvgCostForTwo:    700,
		},
	}

	for i := range restaurants {
		r := &restaurants[i]
		r.IsActive = true
		r.CreatedAt = now
		r.UpdatedAt = now

		if err := restaurantRepo.Create(ctx, r); err != nil {
			log.Printf("Failed to create restaurant %s: %v", r.Name, err)
			continue
		}
		if searchRepo != nil {
			if err := searchRepo.Index(ctx, r); err != nil {
				log.Printf("Failed to index restaurant %s: %v", r.Name, err)
			}
		}

		items := seedItems(r)
		for _, item := range items {
			if err := foodItemRepo.Create(ctx, item); err != nil {
				log.Printf("Failed to create food item %s: %v", item.Name, err)
				continue
			}

			if item.DiscountedCost < item.ActualCost {
				offer := &entities.Offer{
					ID:           uuid.New().String(),
					Type:         entities.OfferTypeFoodItem,
					RestaurantID: r.ID,
					FoodItemID:   item.ID,
					Description:  "Launch week discount",
					Conditions:   []string{"Valid on delivery orders"},
					StartDate:    now.Add(-24 * time.Hour).UnixMilli(),
					EndDate:      now.Add(30 * 24 * time.Hour).UnixMilli(),
					Status:       entities.OfferStatusActive,
					Amount:       item.ActualCost - item.DiscountedCost,
				}
				if err := offerRepo.Create(ctx, offer); err != nil {
					log.Printf("Failed to create offer for %s: %v", item.Name, err)
				}
			}

			video := &entities.Video{
				ID:           uuid.New().String(),
				RestaurantID: r.ID,
				FoodItemID:   item.ID,
				Name:         item.Name,
				Link:         "https://cdn.savora.example/videos/" + item.ID + ".mp4",
				Type:         entities.VideoTypeDelivery,
				Likes:        120,
				Comments:     14,
				CTAText:      "Order Now",
			}
			if err := videoRepo.Create(ctx, video); err != nil {
				log.Printf("Failed to create video for %s: %v", item.Name, err)
			}
		}

		if r.SupportsMode(entities.ModeDining) {
			video := &entities.Video{
				ID:           uuid.New().String(),
				RestaurantID: r.ID,
				Name:         r.Name,
				Link:         "https://cdn.savora.example/videos/" + r.ID + ".mp4",
				Type:         entities.VideoTypeDining,
				Likes:        340,
				Comments:     41,
				CTAText:      "Book Now",
			}
			if err := videoRepo.Create(ctx, video); err != nil {
				log.Printf("Failed to create dining video for %s: %v", r.Name, err)
			}

			offer := &entities.Offer{
				ID:           uuid.New().String(),
				Type:         entities.OfferTypeRestaurant,
				RestaurantID: r.ID,
				Description:  "Flat 100 off on dine-in",
				Conditions:   []string{"Minimum bill 500"},
				StartDate:    now.Add(-24 * time.Hour).UnixMilli(),
				EndDate:      now.Add(30 * 24 * time.Hour).UnixMilli(),
				Status:       entities.OfferStatusActive,
				Amount:       100,
			}
			if err := offerRepo.Create(ctx, offer); err != nil {
				log.Printf("Failed to create dining offer for %s: %v", r.Name, err)
			}
		}
	}

	log.Println("Seeding completed successfully")
}

func seedItems(r *entities.Restaurant) []*entities.FoodItem {
	now := time.Now()
	cuisine := "South Indian"
	if len(r.Cuisines) > 0 {
		cuisine = r.Cuisines[0]
	}

	items := []*entities.FoodItem{
		{
			Name:            r.Name + " Special Biryani",
			Type:            "non-veg",
			Rating:          4.4,
			NumberOfRatings: 880,
			Reviews:         310,
			ActualCost:      320,
			DiscountedCost:  280,
			Details:         "Served with raita and salan",
			Category:        "Mains",
			Bestseller:      true,
		},
		{
			Name:            "Paneer Tikka",
			Type:            "veg",
			Rating:          4.1,
			NumberOfRatings: 410,
			Reviews:         120,
			ActualCost:      260,
			DiscountedCost:  260,
			Details:         "Charcoal grilled, house marinade",
			Category:        "Starters",
			Dietary:         []string{"vegetarian"},
		},
	}

	for _, item := range items {
		item.ID = uuid.New().String()
		item.RestaurantID = r.ID
		item.Status = "available"
		item.Cuisines = []string{cuisine}
		item.CreatedAt = now
		item.UpdatedAt = now
	}
	return items
}
