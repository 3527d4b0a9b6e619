package market

import (
	"context"

	"dailyproxy-api/pkg/cache"
)

type cachedAdapter struct {
	next  Adapter
	store cache.Store
	ttl   cache.TTLSet
}

// WithCache decorates next with a read-through cache keyed by provider,
// symbol, resolution and window. Only non-empty series are stored.
func WithCache(next Adapter, store cache.Store, ttl cache.TTLSet) Adapter {
	if store == nil || next == nil {
		return next
	}
	return &cachedAdapter{next: next, store: store, ttl: ttl}
}

func (c *cachedAdapter) Name() string { return c.next.Name() }

func (c *cachedAdapter) Fetch(ctx context.Context, req Request) (Series, error) {
	key := cache.CandlesKey(c.next.Name(), req.Symbol, req.Resolution, req.From, req.To)
	ttl := cache.CandlesTTL(c.ttl, req.IsDaily())
	return cache.Fetch(ctx, c.store, key, ttl, func(ctx context.Context) (Series, error) {
		return c.next.Fetch(ctx, req)
	}, func(s Series) bool {
		return len(s) > 0
	})
}

// CacheAll wraps every adapter in the chains with WithCache.
func CacheAll(chains map[Class][]Adapter, store cache.Store, ttl cache.TTLSet) map[Class][]Adapter {
	out := make(map[Class][]Adapter, len(chains))
	for class, chain := range chains {
		wrapped := make([]Adapter, len(chain))
		for i, a := range chain {
			wrapped[i] = WithCache(a, store, ttl)
		}
		out[class] = wrapped
	}
	return out
}
