//go:build !integration

package postgres

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"subscription-billing/internal/domain/model"
	"subscription-billing/internal/domain/ports/repository"
	red "subscription-billing/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerFareRuleRepo mocks the database repository that the fare rule decorator wraps.
type mockInnerFareRuleRepo struct {
	GetByPublicIDFunc func(ctx context.Context, tx repository.Tx, publicID string) (*model.FareRule, error)
	GetByIDFunc       func(ctx context.Context, tx repository.Tx, ruleID int64) (*model.FareRule, error)
}

func (m *mockInnerFareRuleRepo) GetByPublicID(ctx context.Context, tx repository.Tx, publicID string) (*model.FareRule, error) {
	return m.GetByPublicIDFunc(ctx, tx, publicID)
}
func (m *mockInnerFareRuleRepo) GetByID(ctx context.Context, tx repository.Tx, ruleID int64) (*model.FareRule, error) {
	return m.GetByIDFunc(ctx, tx, ruleID)
}

// mockRedisClient mocks the Redis client; unset funcs behave like an empty cache.
type mockRedisClient struct {
	GetFunc func(ctx context.Context, key string) (string, error)
	SetFunc func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc func(ctx context.Context, keys ...string) error
}

var _ red.RedisClient = (*mockRedisClient)(nil)

func (m *mockRedisClient) Ping(ctx context.Context) error { return nil }
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}
func (m *mockRedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return true, nil
}
func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", redis.Nil
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}
func (m *mockRedisClient) DelIfEquals(ctx context.Context, key, value string) (bool, error) {
	return true, nil
}
func (m *mockRedisClient) Close() error { return nil }
