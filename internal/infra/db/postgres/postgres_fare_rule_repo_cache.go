package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"subscription-billing/internal/domain/model"
	"subscription-billing/internal/domain/ports/repository"
	"subscription-billing/internal/infra/metrics"
	red "subscription-billing/internal/infra/redis"
)

var _ repository.FareRuleRepository = (*fareRuleRepoCacheDecorator)(nil)

// fareRuleRepoCacheDecorator is a read-through cache; fare rules are immutable once published.
type fareRuleRepoCacheDecorator struct {
	inner  repository.FareRuleRepository
	cache  red.RedisClient
	ttl    time.Duration
	logger *zerolog.Logger
}

func NewFareRuleRepoCacheDecorator(inner repository.FareRuleRepository, cache red.RedisClient, ttl time.Duration, logger *zerolog.Logger) repository.FareRuleRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &fareRuleRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func (d *fareRuleRepoCacheDecorator) GetByPublicID(ctx context.Context, tx repository.Tx, publicID string) (*model.FareRule, error) {
	return d.readThrough(ctx, fmt.Sprintf("fare_rule:pub:%s", publicID), func() (*model.FareRule, error) {
		return d.inner.GetByPublicID(ctx, tx, publicID)
	})
}

func (d *fareRuleRepoCacheDecorator) GetByID(ctx context.Context, tx repository.Tx, ruleID int64) (*model.FareRule, error) {
	return d.readThrough(ctx, fmt.Sprintf("fare_rule:id:%d", ruleID), func() (*model.FareRule, error) {
		return d.inner.GetByID(ctx, tx, ruleID)
	})
}

func (d *fareRuleRepoCacheDecorator) readThrough(ctx context.Context, key string, load func() (*model.FareRule, error)) (*model.FareRule, error) {
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var rule model.FareRule
		if json.Unmarshal([]byte(val), &rule) == nil {
			metrics.IncCacheRequest("fare_rule", "hit")
			return &rule, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		d.logger.Warn().Err(err).Str("key", key).Msg("fare rule cache read failed")
	}

	metrics.IncCacheRequest("fare_rule", "miss")
	rule, err := load()
	if err != nil {
		return nil, err
	}
	if rule != nil {
		bytes, _ := json.Marshal(rule)
		if err := d.cache.Set(ctx, key, bytes, d.ttl); err != nil {
			d.logger.Warn().Err(err).Str("key", key).Msg("fare rule cache write failed")
		}
	}
	return rule, nil
}
