package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

// CatalogCache implements domain.CatalogCache with JSON string values.
//
// Key schema:
//
//	{prefix}:catalog:categories - JSON array of categories
//	{prefix}:catalog:stats      - JSON stats object
type CatalogCache struct {
	c *Client
}

var _ domain.CatalogCache = (*CatalogCache)(nil)

// NewCatalogCache creates a CatalogCache backed by the given Client.
func NewCatalogCache(c *Client) *CatalogCache {
	return &CatalogCache{c: c}
}

func (cc *CatalogCache) categoriesKey() string { return cc.c.Key("catalog", "categories") }
func (cc *CatalogCache) statsKey() string      { return cc.c.Key("catalog", "stats") }

// GetCategories returns the cached category list or domain.ErrCacheMiss.
func (cc *CatalogCache) GetCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	if err := cc.get(ctx, cc.categoriesKey(), &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// SetCategories caches the category list for ttl.
func (cc *CatalogCache) SetCategories(ctx context.Context, categories []domain.Category, ttl time.Duration) error {
	return cc.set(ctx, cc.categoriesKey(), categories, ttl)
}

// GetStats returns the cached stats or domain.ErrCacheMiss.
func (cc *CatalogCache) GetStats(ctx context.Context) (domain.Stats, error) {
	var st domain.Stats
	if err := cc.get(ctx, cc.statsKey(), &st); err != nil {
		return domain.Stats{}, err
	}
	return st, nil
}

// SetStats caches the stats for ttl.
func (cc *CatalogCache) SetStats(ctx context.Context, stats domain.Stats, ttl time.Duration) error {
	return cc.set(ctx, cc.statsKey(), stats, ttl)
}

// Invalidate drops both cached entries.
func (cc *CatalogCache) Invalidate(ctx context.Context) error {
	if err := cc.c.rdb.Del(ctx, cc.categoriesKey(), cc.statsKey()).Err(); err != nil {
		return fmt.Errorf("redis: invalidate catalog: %w", err)
	}
	return nil
}

func (cc *CatalogCache) get(ctx context.Context, key string, out any) error {
	data, err := cc.c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ErrCacheMiss
		}
		return fmt.Errorf("redis: get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("redis: unmarshal %s: %w", key, err)
	}
	return nil
}

func (cc *CatalogCache) set(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("redis: marshal %s: %w", key, err)
	}
	if err := cc.c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}
