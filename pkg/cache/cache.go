package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeromicro/go-zero/core/logx"
)

// ErrEmptyKey is returned when a store operation receives a blank key.
var ErrEmptyKey = errors.New("cache: empty key")

// Store is an expiring byte cache. A missing or expired key reports ok=false
// with a nil error.
type Store interface {
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Load decodes the value stored under key. Store and decode failures are
// logged and reported as a miss so callers fall through to the origin.
func Load[T any](ctx context.Context, store Store, key string) (T, bool) {
	var zero T
	if store == nil {
		return zero, false
	}
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		logx.WithContext(ctx).Errorf("cache: get key=%s err=%v", key, err)
		return zero, false
	}
	if !ok {
		return zero, false
	}
	var out T
	if err := msgpack.Unmarshal(raw, &out); err != nil {
		logx.WithContext(ctx).Errorf("cache: decode key=%s err=%v", key, err)
		return zero, false
	}
	return out, true
}

// Save encodes v and stores it under key for ttl. A non-positive ttl is a no-op.
func Save[T any](ctx context.Context, store Store, key string, v T, ttl time.Duration) {
	if store == nil || ttl <= 0 {
		return
	}
	raw, err := msgpack.Marshal(v)
	if err != nil {
		logx.WithContext(ctx).Errorf("cache: encode key=%s err=%v", key, err)
		return
	}
	if err := store.Set(ctx, key, raw, ttl); err != nil {
		logx.WithContext(ctx).Errorf("cache: set key=%s err=%v", key, err)
	}
}

// Fetch is a read-through helper: it returns the cached value when present,
// otherwise calls load and caches its result when keep reports true.
// Concurrent misses may both call load.
func Fetch[T any](ctx context.Context, store Store, key string, ttl time.Duration, load func(context.Context) (T, error), keep func(T) bool) (T, error) {
	if v, ok := Load[T](ctx, store, key); ok {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if keep == nil || keep(v) {
		Save(ctx, store, key, v, ttl)
	}
	return v, nil
}

func checkKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}

func ttlSeconds(ttl time.Duration) (int, error) {
	if ttl <= 0 {
		return 0, fmt.Errorf("cache: ttl must be positive, got %s", ttl)
	}
	secs := int(ttl / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs, nil
}
