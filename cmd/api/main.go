package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/savoraeats/savora-backend/internal/adapters/cache"
	"github.com/savoraeats/savora-backend/internal/adapters/database"
	"github.com/savoraeats/savora-backend/internal/adapters/events"
	"github.com/savoraeats/savora-backend/internal/adapters/providers/routing"
	"github.com/savoraeats/savora-backend/internal/adapters/search"
	"github.com/savoraeats/savora-backend/internal/api/handlers"
	"github.com/savoraeats/savora-backend/internal/api/middleware"
	"github.com/savoraeats/savora-backend/internal/api/routes"
	"github.com/savoraeats/savora-backend/internal/application/services"
	"github.com/savoraeats/savora-backend/internal/domain/providers"
	"github.com/savoraeats/savora-backend/internal/domain/repositories"
	"github.com/savoraeats/savora-backend/internal/infrastructure/clients/postgres"
	"github.com/savoraeats/savora-backend/internal/infrastructure/clients/redis"
	"github.com/savoraeats/savora-backend/internal/infrastructure/clients/typesense"
	"github.com/savoraeats/savora-backend/internal/infrastructure/observability"
	"github.com/savoraeats/savora-backend/pkg/config"
)

func main() {

	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger("savora", cfg.Server.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis client, continuing without caching")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized successfully")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Typesense client, search falls back to the database")
		typesenseClient = nil
	} else {
		log.Info().Msg("Typesense client initialized successfully")
	}

	// Cache and event bus are only available when Redis is up
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
	}

	// Services always receive a cache; the noop adapter turns every
	// lookup into a miss when Redis is down
	serviceCache := cacheProvider
	if serviceCache == nil {
		serviceCache = cache.NewNoopAdapter()
	}

	// Create base restaurant adapter, wrapped with caching when available
	baseRestaurantAdapter := database.NewRestaurantAdapter(pgClient)

	var restaurantAdapter repositories.RestaurantRepository
	if cacheProvider != nil {
		restaurantAdapter = database.NewCachedRestaurantAdapter(baseRestaurantAdapter, cacheProvider)
		log.Info().Msg("Restaurant adapter wrapped with caching layer")
	} else {
		restaurantAdapter = baseRestaurantAdapter
		log.Warn().Msg("Restaurant adapter running without cache (Redis unavailable)")
	}

	foodItemAdapter := database.NewFoodItemAdapter(pgClient)
	offerAdapter := database.NewOfferAdapter(pgClient)
	videoAdapter := database.NewVideoAdapter(pgClient)
	orderAdapter := database.NewOrderAdapter(pgClient)

	var searchAdapter repositories.RestaurantSearchRepository
	if typesenseClient != nil {
		if err := typesenseClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to ensure Typesense schema")
		}
		searchAdapter = search.NewTypesenseAdapter(typesenseClient)
	}

	// Routing provider resolves driving distances; the mock keeps the
	// service usable without an upstream account
	var routingProvider providers.RoutingProvider
	if cfg.Routing.Provider == "mapbox" && cfg.Routing.AccessToken != "" {
		routingProvider = routing.NewMapboxRoutingProviderWithOptions(
			cfg.Routing.AccessToken,
			cfg.Routing.Profile,
			cfg.Routing.BaseURL,
			nil,
		)
		log.Info().Msg("Mapbox routing provider initialized")
	} else {
		routingProvider = routing.NewMockRoutingProvider()
		log.Warn().Msg("Using mock routing provider (no Mapbox access token configured)")
	}

	// Initialize services
	proximityService := services.NewProximityService(
		restaurantAdapter,
		serviceCache,
		routingProvider,
		time.Duration(cfg.Routing.TimeoutSeconds)*time.Second,
	)
	feedService := services.NewFeedService(
		proximityService,
		restaurantAdapter,
		foodItemAdapter,
		offerAdapter,
		videoAdapter,
	)
	discoveryService := services.NewRestaurantDiscoveryService(
		proximityService,
		restaurantAdapter,
		orderAdapter,
		serviceCache,
	)
	restaurantService := services.NewRestaurantService(
		restaurantAdapter,
		foodItemAdapter,
		searchAdapter,
		proximityService,
		eventBus,
	)
	foodItemService := services.NewFoodItemService(foodItemAdapter)
	searchService := services.NewSearchService(
		proximityService,
		restaurantAdapter,
		foodItemAdapter,
		searchAdapter,
	)
	chargeService := services.NewChargeService(
		restaurantAdapter,
		foodItemAdapter,
		offerAdapter,
		proximityService,
		serviceCache,
	)

	// Drop stale geo fingerprints when restaurants change
	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start cache invalidation service")
			cacheInvalidationService = nil
		} else {
			log.Info().Msg("Cache invalidation service started")
		}
	}

	// Initialize handlers
	feedHandler := handlers.NewFeedHandler(feedService)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService, discoveryService)
	foodItemHandler := handlers.NewFoodItemHandler(foodItemService)
	searchHandler := handlers.NewSearchHandler(searchService)
	orderHandler := handlers.NewOrderHandler(chargeService)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	router := routes.NewRouter(
		feedHandler,
		restaurantHandler,
		foodItemHandler,
		searchHandler,
		orderHandler,
		cacheMiddleware,
	)

	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}

	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}

	log.Info().Msg("Server stopped")
}
