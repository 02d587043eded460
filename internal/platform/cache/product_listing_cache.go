package cache

import (
	"context"
	"errors"
	"time"

	portsrepo "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const productListingKey = "products:all"

// RedisListingCache stores the serialized full product listing under a
// single key with a fixed TTL.
type RedisListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisListingCache creates a listing cache backed by the given client.
func NewRedisListingCache(client *redis.Client, ttl time.Duration) *RedisListingCache {
	return &RedisListingCache{client: client, ttl: ttl}
}

var _ portsrepo.ListingCache = (*RedisListingCache)(nil)

func (c *RedisListingCache) Get(ctx context.Context) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, productListingKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return raw, true, nil
}

func (c *RedisListingCache) Set(ctx context.Context, payload []byte) error {
	return c.client.Set(ctx, productListingKey, payload, c.ttl).Err()
}

func (c *RedisListingCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, productListingKey).Err()
}

// NoopListingCache is used when no redis is configured; every lookup is a
// miss and writes are discarded, so the service always serves live data.
type NoopListingCache struct{}

var _ portsrepo.ListingCache = (*NoopListingCache)(nil)

func (NoopListingCache) Get(ctx context.Context) ([]byte, bool, error) { return nil, false, nil }
func (NoopListingCache) Set(ctx context.Context, payload []byte) error { return nil }
func (NoopListingCache) Invalidate(ctx context.Context) error          { return nil }
