package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-redis/redis/v8"

	"subscription-billing/internal/domain"
	"subscription-billing/internal/domain/model"
	"subscription-billing/internal/domain/ports/repository"
	"subscription-billing/internal/infra/metrics"
)

var _ repository.OrderCacheStore = (*OrderCache)(nil)

// OrderCache stores staged orders as JSON values with a TTL.
type OrderCache struct {
	client RedisClient
}

func NewOrderCache(client RedisClient) *OrderCache {
	return &OrderCache{client: client}
}

func (c *OrderCache) Key(userID, publicID string) repository.OrderCacheKey {
	return repository.NewOrderCacheKey(userID, publicID)
}

func (c *OrderCache) Stage(ctx context.Context, key repository.OrderCacheKey, order *model.StagedOrder, ttl time.Duration) error {
	if order == nil || ttl <= 0 {
		return domain.ErrInvalidArgument
	}
	data, err := json.Marshal(order)
	if err != nil {
		return errors.Wrap(err, "marshal staged order")
	}
	if err := c.client.Set(ctx, string(key), data, ttl); err != nil {
		metrics.IncOrderCache("stage", "error")
		return errors.Wrapf(err, "stage order %s", key)
	}
	metrics.IncOrderCache("stage", "ok")
	return nil
}

func (c *OrderCache) Read(ctx context.Context, key repository.OrderCacheKey) (*model.StagedOrder, error) {
	data, err := c.client.Get(ctx, string(key))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.IncOrderCache("read", "miss")
			return nil, domain.NotFoundf("staged order %s not found", key)
		}
		metrics.IncOrderCache("read", "error")
		return nil, errors.Wrapf(err, "read order %s", key)
	}
	var order model.StagedOrder
	if err := json.Unmarshal([]byte(data), &order); err != nil {
		metrics.IncOrderCache("read", "error")
		return nil, errors.Wrapf(err, "decode staged order %s", key)
	}
	metrics.IncOrderCache("read", "hit")
	return &order, nil
}
