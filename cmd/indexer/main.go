package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/savoraeats/savora-backend/internal/adapters/database"
	"github.com/savoraeats/savora-backend/internal/adapters/search"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
	"github.com/savoraeats/savora-backend/internal/infrastructure/clients/postgres"
	"github.com/savoraeats/savora-backend/internal/infrastructure/clients/typesense"
	"github.com/savoraeats/savora-backend/pkg/config"
)

const listBatchSize = 500

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatalf("Invalid interval %q: %v", intervalValue, err)
		}
		if interval <= 0 {
			log.Fatalf("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			log.Printf("Reindex failed: %v", err)
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Printf("Reindex complete. Next run in %s.", interval)

		select {
		case <-ctx.Done():
			log.Println("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	restaurantRepo := database.NewRestaurantAdapter(pgClient)

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Println("Deleting restaurants collection before reindex")
		_, err := tsClient.Client().Collection(typesense.RestaurantsCollection).Delete(ctx)
		if err != nil {
			log.Printf("Warning: failed to delete collection: %v", err)
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	searchRepo := search.NewTypesenseAdapter(tsClient)

	indexed := 0
	for offset := 0; ; offset += listBatchSize {
		restaurants, err := restaurantRepo.List(ctx, repositories.RestaurantFilter{
			Limit:  listBatchSize,
			Offset: offset,
		})
		if err != nil {
			return err
		}
		if len(restaurants) == 0 {
			break
		}

		for _, restaurant := range restaurants {
			if restaurant == nil {
				continue
			}
			if err := searchRepo.Index(ctx, restaurant); err != nil {
				log.Printf("Warning: failed to index restaurant %s: %v", restaurant.ID, err)
				continue
			}
			indexed++
		}

		if len(restaurants) < listBatchSize {
			break
		}
	}

	log.Printf("Indexed %d restaurants", indexed)
	return nil
}
