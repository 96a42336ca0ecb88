package redisx

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/ariefcatur/go-shop-api/internal/shop"
	"github.com/redis/go-redis/v9"
)

// ProductCache is a read-through cache in front of FindProductsByIDs.
// Products are never updated through the API, so a cached record only goes
// stale if it is edited out of band, and the TTL bounds that. Filtered
// listing always goes to the store. Redis failures fall back to the store.
type ProductCache struct {
	Next   shop.ProductStore
	Redis  redis.Cmdable
	TTL    time.Duration
	Logger *log.Logger
}

func NewProductCache(next shop.ProductStore, rdb redis.Cmdable, logger *log.Logger) *ProductCache {
	return &ProductCache{Next: next, Redis: rdb, TTL: TTLProduct, Logger: logger}
}

func (c *ProductCache) InsertProduct(ctx context.Context, p shop.Product) (string, error) {
	return c.Next.InsertProduct(ctx, p)
}

func (c *ProductCache) FindProducts(ctx context.Context, f shop.ProductFilter, limit, offset int) ([]shop.Product, error) {
	return c.Next.FindProducts(ctx, f, limit, offset)
}

func (c *ProductCache) FindProductsByIDs(ctx context.Context, ids []string) ([]shop.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	vals, err := c.Redis.MGet(ctx, keys...).Result()
	if err != nil {
		c.logf("product cache get: %v", err)
		return c.Next.FindProductsByIDs(ctx, ids)
	}

	var (
		out    []shop.Product
		misses []string
	)
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			misses = append(misses, ids[i])
			continue
		}
		var p shop.Product
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			misses = append(misses, ids[i])
			continue
		}
		out = append(out, p)
	}
	if len(misses) == 0 {
		return out, nil
	}

	found, err := c.Next.FindProductsByIDs(ctx, misses)
	if err != nil {
		return nil, err
	}
	c.store(ctx, found)
	return append(out, found...), nil
}

func (c *ProductCache) store(ctx context.Context, ps []shop.Product) {
	if len(ps) == 0 {
		return
	}
	pipe := c.Redis.Pipeline()
	for _, p := range ps {
		b, err := json.Marshal(p)
		if err != nil {
			continue
		}
		pipe.Set(ctx, productKey(p.ID), b, c.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logf("product cache set: %v", err)
	}
}

func (c *ProductCache) logf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}
