package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/snappy"
)

// compressedCache snappy-encodes values on the way in and decodes them on
// the way out.
type compressedCache struct {
	inner Cache
}

// Compressed wraps c so stored values are snappy-compressed. Layout JSON
// and SVG shrink several times over.
func Compressed(c Cache) Cache {
	return &compressedCache{inner: c}
}

func (c *compressedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	out, err := snappy.Decode(nil, data)
	if err != nil {
		// Written by an uncompressed cache; drop it.
		_ = c.inner.Delete(ctx, key)
		return nil, false, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return out, true, nil
}

func (c *compressedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, key, snappy.Encode(nil, data), ttl)
}

func (c *compressedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

func (c *compressedCache) Close() error { return c.inner.Close() }
