package services

import (
	"context"
	"encoding/json"
	"fmt"
	"interview-api/internal/config"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService is a JSON value cache. Implementations namespace their keys, so
// callers pass bare keys such as "entitlement:<id>".
type CacheService interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Ping(ctx context.Context) error
	Close() error
}

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = redis.Nil

const deleteBatchSize = 100

type RedisCacheService struct {
	client *redis.Client
	prefix string
}

func NewRedisCacheService(cfg config.CacheConfig) (*RedisCacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}

	return &RedisCacheService{client: client, prefix: cfg.KeyPrefix}, nil
}

func (c *RedisCacheService) key(k string) string {
	return c.prefix + k
}

func (c *RedisCacheService) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, c.key(key)).Result()
}

func (c *RedisCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value for %s: %w", key, err)
	}
	return c.client.Set(ctx, c.key(key), payload, expiration).Err()
}

func (c *RedisCacheService) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// DeleteByPattern walks matching keys with SCAN and removes them in batches.
func (c *RedisCacheService) DeleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, c.key(pattern), deleteBatchSize).Iterator()
	batch := make([]string, 0, deleteBatchSize)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == deleteBatchSize {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return c.client.Del(ctx, batch...).Err()
	}
	return nil
}

func (c *RedisCacheService) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCacheService) Close() error {
	return c.client.Close()
}

// getCached decodes a cached JSON value into dest. It reports false on a miss or
// any cache failure so callers fall through to the store.
func getCached(ctx context.Context, cache CacheService, key string, dest interface{}) bool {
	if cache == nil {
		return false
	}
	raw, err := cache.Get(ctx, key)
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}
