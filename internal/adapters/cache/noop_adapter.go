package cache

import (
	"context"
	"errors"

	"github.com/savoraeats/savora-backend/internal/domain/providers"
)

// ErrCacheDisabled is returned by every read on the noop adapter.
var ErrCacheDisabled = errors.New("cache disabled")

// NoopAdapter satisfies CacheProvider when no cache backend is
// configured. Reads always miss and writes are discarded, so services
// fall through to their upstream sources unchanged.
type NoopAdapter struct{}

// NewNoopAdapter creates a cache adapter that never stores anything
func NewNoopAdapter() providers.CacheProvider {
	return &NoopAdapter{}
}

func (a *NoopAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrCacheDisabled
}

func (a *NoopAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	return nil
}

func (a *NoopAdapter) SetNX(ctx context.Context, key string, value []byte, expirationSeconds int) (bool, error) {
	return false, nil
}

func (a *NoopAdapter) Delete(ctx context.Context, key string) error {
	return nil
}

func (a *NoopAdapter) DeletePattern(ctx context.Context, pattern string) error {
	return nil
}

func (a *NoopAdapter) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}
