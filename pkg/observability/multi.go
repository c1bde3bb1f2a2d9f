package observability

import (
	"context"
	"time"
)

// MultiLayoutHooks returns LayoutHooks that forward every event to each of hs
// in order. Nil entries are skipped.
func MultiLayoutHooks(hs ...LayoutHooks) LayoutHooks {
	return multiLayout(compact(hs))
}

// MultiCacheHooks returns CacheHooks that forward every event to each of hs.
func MultiCacheHooks(hs ...CacheHooks) CacheHooks {
	return multiCache(compact(hs))
}

// MultiHTTPHooks returns HTTPHooks that forward every event to each of hs.
func MultiHTTPHooks(hs ...HTTPHooks) HTTPHooks {
	return multiHTTP(compact(hs))
}

func compact[T any](hs []T) []T {
	out := make([]T, 0, len(hs))
	for _, h := range hs {
		if any(h) != nil {
			out = append(out, h)
		}
	}
	return out
}

type multiLayout []LayoutHooks

func (m multiLayout) OnLayoutStart(ctx context.Context, nodes, edges int) {
	for _, h := range m {
		h.OnLayoutStart(ctx, nodes, edges)
	}
}

func (m multiLayout) OnTierAttempt(ctx context.Context, tier string, d time.Duration, err error) {
	for _, h := range m {
		h.OnTierAttempt(ctx, tier, d, err)
	}
}

func (m multiLayout) OnLayoutComplete(ctx context.Context, tier string, nodes int, d time.Duration) {
	for _, h := range m {
		h.OnLayoutComplete(ctx, tier, nodes, d)
	}
}

func (m multiLayout) OnRenderStart(ctx context.Context, formats []string) {
	for _, h := range m {
		h.OnRenderStart(ctx, formats)
	}
}

func (m multiLayout) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	for _, h := range m {
		h.OnRenderComplete(ctx, formats, d, err)
	}
}

type multiCache []CacheHooks

func (m multiCache) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheHit(ctx, keyType)
	}
}

func (m multiCache) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (m multiCache) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range m {
		h.OnCacheSet(ctx, keyType, size)
	}
}

type multiHTTP []HTTPHooks

func (m multiHTTP) OnRequest(ctx context.Context, method, route string) {
	for _, h := range m {
		h.OnRequest(ctx, method, route)
	}
}

func (m multiHTTP) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	for _, h := range m {
		h.OnResponse(ctx, method, route, status, d)
	}
}

func (m multiHTTP) OnError(ctx context.Context, method, route string, err error) {
	for _, h := range m {
		h.OnError(ctx, method, route, err)
	}
}
