package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/savoraeats/savora-backend/internal/domain/entities"
	"github.com/savoraeats/savora-backend/internal/domain/providers"
)

// Fingerprint families that may reference a restaurant whose
// attributes or position just changed.
var staleFingerprintPatterns = []string{
	"restaurants:*",
	"distance#restaurant#*",
	"similarRestaurants:*",
	"popular*",
}

// CacheInvalidationService drops geo fingerprints when restaurant
// write events arrive. A position or attribute change can invalidate
// any cached radius result that contains (or now should contain) the
// restaurant, so the whole family goes.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for restaurant events
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelRestaurantUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to restaurant updates: %w", err)
	}

	go s.processEvents(eventChan)
	log.Info().Msg("Cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Info().Msg("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.RestaurantEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-eventChan:
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

// handleEvent drops every fingerprint family plus the restaurant's own
// entity cache entry.
func (s *CacheInvalidationService) handleEvent(event *entities.RestaurantEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Debug().
		Str("event_id", event.ID).
		Str("restaurant_id", event.RestaurantID).
		Str("event_type", event.EventType).
		Msg("Processing cache invalidation")

	for _, pattern := range staleFingerprintPatterns {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			log.Warn().Err(err).Str("pattern", pattern).Msg("Failed to invalidate fingerprint family")
		}
	}

	entityKey := fmt.Sprintf("restaurant:%s", event.RestaurantID)
	if err := s.cache.Delete(ctx, entityKey); err != nil {
		log.Warn().Err(err).Str("key", entityKey).Msg("Failed to invalidate restaurant entity cache")
	}
}
