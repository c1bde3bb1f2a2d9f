package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/bpmnlayout/pkg/observability"
)

// instrumented reports hits, misses and writes to observability.Cache().
type instrumented struct {
	inner Cache
}

// Instrumented wraps c with cache hooks. The key type reported to hooks is
// the key segment before the hash, e.g. "layout" for "layout:ab12...".
func Instrumented(c Cache) Cache {
	return &instrumented{inner: c}
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, KeyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KeyType(key))
		}
	}
	return data, ok, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.inner.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	return nil
}

func (c *instrumented) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

func (c *instrumented) Close() error { return c.inner.Close() }

// KeyType returns the kind segment of a key built by a Keyer, ignoring any
// scope prefix.
func KeyType(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[len(parts)-2]
}
