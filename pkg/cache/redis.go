package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/stores/redis"
)

// RedisStore keeps entries in Redis with SETEX semantics.
type RedisStore struct {
	client *redis.Redis
}

// NewRedisStore connects to the configured Redis node.
func NewRedisStore(conf redis.RedisConf) (*RedisStore, error) {
	client, err := redis.NewRedis(conf)
	if err != nil {
		return nil, fmt.Errorf("cache: connect redis %s: %w", conf.Host, err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Redis) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}
	val, err := r.client.GetCtx(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if val == "" {
		return nil, false, nil
	}
	return []byte(val), true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := checkKey(key); err != nil {
		return err
	}
	secs, err := ttlSeconds(ttl)
	if err != nil {
		return err
	}
	return r.client.SetexCtx(ctx, key, string(val), secs)
}

func (r *RedisStore) Del(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := r.client.DelCtx(ctx, key)
	return err
}
