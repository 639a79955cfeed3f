package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savoraeats/savora-backend/internal/application/services"
	"github.com/savoraeats/savora-backend/internal/domain/entities"
)

// channelEventBus feeds subscribers from an in-memory channel
type channelEventBus struct {
	events chan *entities.RestaurantEvent
}

func newChannelEventBus() *channelEventBus {
	return &channelEventBus{events: make(chan *entities.RestaurantEvent, 8)}
}

func (b *channelEventBus) Publish(ctx context.Context, channel string, event *entities.RestaurantEvent) error {
	b.events <- event
	return nil
}

func (b *channelEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.RestaurantEvent, error) {
	return b.events, nil
}

func (b *channelEventBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *channelEventBus) Close() error { return nil }

func waitForOps(t *testing.T, cacheStore *memoryCache, want int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ops := cacheStore.operations(); len(ops) >= want {
			return ops
		}
		time.Sleep(5 * time.Millisecond)
	}
	ops := cacheStore.operations()
	require.GreaterOrEqual(t, len(ops), want, "invalidation never reached the cache")
	return ops
}

func TestCacheInvalidation_DropsFingerprintFamiliesOnEvent(t *testing.T) {
	cacheStore := newMemoryCache()
	bus := newChannelEventBus()
	svc := services.NewCacheInvalidationService(cacheStore, bus)
	require.NoError(t, svc.Start())
	defer svc.Stop()

	err := bus.Publish(context.Background(), "restaurant:updates", &entities.RestaurantEvent{
		ID:           "evt-1",
		RestaurantID: "rest-1",
		EventType:    "updated",
	})
	require.NoError(t, err)

	ops := waitForOps(t, cacheStore, 5)
	assert.Contains(t, ops, "deletePattern:restaurants:*")
	assert.Contains(t, ops, "deletePattern:distance#restaurant#*")
	assert.Contains(t, ops, "deletePattern:similarRestaurants:*")
	assert.Contains(t, ops, "deletePattern:popular*")
	assert.Contains(t, ops, "delete:restaurant:rest-1")
}

func TestCacheInvalidation_RemovesMatchingEntries(t *testing.T) {
	cacheStore := newMemoryCache()
	require.NoError(t, cacheStore.Set(context.Background(), "restaurants:12.9:77.6:0:10", []byte("[]"), 900))
	require.NoError(t, cacheStore.Set(context.Background(), "charges#user-1#rest-1", []byte("{}"), 900))

	bus := newChannelEventBus()
	svc := services.NewCacheInvalidationService(cacheStore, bus)
	require.NoError(t, svc.Start())
	defer svc.Stop()

	err := bus.Publish(context.Background(), "restaurant:updates", &entities.RestaurantEvent{
		ID:           "evt-2",
		RestaurantID: "rest-1",
		EventType:    "moved",
	})
	require.NoError(t, err)
	waitForOps(t, cacheStore, 7)

	_, err = cacheStore.Get(context.Background(), "restaurants:12.9:77.6:0:10")
	assert.Error(t, err)
	// Charge previews are user scoped and survive restaurant events
	_, err = cacheStore.Get(context.Background(), "charges#user-1#rest-1")
	assert.NoError(t, err)
}

func TestCacheInvalidation_StopEndsProcessing(t *testing.T) {
	cacheStore := newMemoryCache()
	bus := newChannelEventBus()
	svc := services.NewCacheInvalidationService(cacheStore, bus)
	require.NoError(t, svc.Start())
	svc.Stop()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, bus.Publish(context.Background(), "restaurant:updates", &entities.RestaurantEvent{
		ID:           "evt-3",
		RestaurantID: "rest-1",
		EventType:    "updated",
	}))
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, cacheStore.operations())
}
