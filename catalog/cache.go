package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"skouce/models"
)

const (
	productsKey = "catalog:products"
	facetsKey   = "catalog:facets"
)

// Cached fronts another Catalog with a Redis copy that expires after ttl.
// Redis failures fall through to the inner catalog.
type Cached struct {
	inner Catalog
	rdb   redis.Cmdable
	ttl   time.Duration
}

func NewCached(inner Catalog, rdb redis.Cmdable, ttl time.Duration) *Cached {
	return &Cached{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *Cached) Products(ctx context.Context) ([]models.Product, error) {
	return readThrough(ctx, c, productsKey, c.inner.Products)
}

func (c *Cached) Facets(ctx context.Context) ([]models.FacetGroup, error) {
	return readThrough(ctx, c, facetsKey, c.inner.Facets)
}

// Invalidate drops both cached entries.
func (c *Cached) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, productsKey, facetsKey).Err()
}

func readThrough[T any](ctx context.Context, c *Cached, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var out []T
		if err := json.Unmarshal(raw, &out); err == nil {
			return out, nil
		}
		log.Printf("[catalog.Cached] corrupt entry key=%s, reloading", key)
	case !errors.Is(err, redis.Nil):
		log.Printf("[catalog.Cached] redis get key=%s: %v", key, err)
	}

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Printf("[catalog.Cached] redis set key=%s: %v", key, err)
		}
	}
	return out, nil
}
