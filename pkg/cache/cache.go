package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys. Implementations are
// safe for concurrent use. A miss is (nil, false, nil); errors are reserved
// for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl of zero or less means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default entry lifetimes. Layouts depend only on the graph and options,
// so they live long; rendered artifacts are larger and rebuilt cheaply.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// NullCache is a no-op cache that never stores anything.
// Used when caching is disabled.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
