// Package memcache holds the in-process order cache used for single-instance
// deployments and local development.
package memcache

import (
	"context"
	"slices"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"subscription-billing/internal/domain"
	"subscription-billing/internal/domain/model"
	"subscription-billing/internal/domain/ports/repository"
	"subscription-billing/internal/infra/metrics"
)

var _ repository.OrderCacheStore = (*OrderCache)(nil)

type OrderCache struct {
	store *gocache.Cache
}

// NewOrderCache creates a cache whose janitor sweeps expired entries every cleanup.
func NewOrderCache(cleanup time.Duration) *OrderCache {
	return &OrderCache{store: gocache.New(gocache.NoExpiration, cleanup)}
}

func (c *OrderCache) Key(userID, publicID string) repository.OrderCacheKey {
	return repository.NewOrderCacheKey(userID, publicID)
}

func (c *OrderCache) Stage(_ context.Context, key repository.OrderCacheKey, order *model.StagedOrder, ttl time.Duration) error {
	if order == nil || ttl <= 0 {
		return domain.ErrInvalidArgument
	}
	// store a copy so later mutation by the caller is not visible to readers
	cp := *order
	cp.ProductLabels = slices.Clone(order.ProductLabels)
	c.store.Set(string(key), cp, ttl)
	metrics.IncOrderCache("stage", "ok")
	return nil
}

func (c *OrderCache) Read(_ context.Context, key repository.OrderCacheKey) (*model.StagedOrder, error) {
	v, ok := c.store.Get(string(key))
	if !ok {
		metrics.IncOrderCache("read", "miss")
		return nil, domain.NotFoundf("staged order %s not found", key)
	}
	order := v.(model.StagedOrder)
	order.ProductLabels = slices.Clone(order.ProductLabels)
	metrics.IncOrderCache("read", "hit")
	return &order, nil
}
