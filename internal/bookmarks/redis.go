package bookmarks

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores values as plain redis strings under prefix+key.
type RedisKV struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisKV(rdb *redis.Client, prefix string) *RedisKV {
	return &RedisKV{rdb: rdb, prefix: prefix}
}

func (kv *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := kv.rdb.Get(ctx, kv.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis kv: get: %w", err)
	}
	return v, true, nil
}

func (kv *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := kv.rdb.Set(ctx, kv.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis kv: set: %w", err)
	}
	return nil
}

func (kv *RedisKV) Remove(ctx context.Context, key string) error {
	if err := kv.rdb.Del(ctx, kv.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis kv: del: %w", err)
	}
	return nil
}
