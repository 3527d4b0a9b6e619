package cache

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/collection"
)

// MemoryStore keeps entries in process using go-zero's expiring cache.
type MemoryStore struct {
	cache *collection.Cache
}

// NewMemoryStore creates an in-process store. defaultTTL applies to entries
// written without their own expiry.
func NewMemoryStore(name string, defaultTTL time.Duration) (*MemoryStore, error) {
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	c, err := collection.NewCache(defaultTTL, collection.WithName(name))
	if err != nil {
		return nil, err
	}
	return &MemoryStore{cache: c}, nil
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}
	v, ok := m.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	raw, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if _, err := ttlSeconds(ttl); err != nil {
		return err
	}
	stored := make([]byte, len(val))
	copy(stored, val)
	m.cache.SetWithExpire(key, stored, ttl)
	return nil
}

func (m *MemoryStore) Del(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	m.cache.Del(key)
	return nil
}
