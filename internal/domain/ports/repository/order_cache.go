package repository

import (
	"context"
	"net/url"
	"time"

	"subscription-billing/internal/domain/model"
)

// OrderCacheKey addresses a staged order. It is derived from (userID, fare rule publicID).
type OrderCacheKey string

// OrderCacheStore keeps staged orders for a bounded time.
// Stage overwrites any previous value under the same key (last write wins).
type OrderCacheStore interface {
	Key(userID, publicID string) OrderCacheKey
	Stage(ctx context.Context, key OrderCacheKey, order *model.StagedOrder, ttl time.Duration) error
	// Read returns domain.ErrNotFound if the key was never staged or has expired.
	Read(ctx context.Context, key OrderCacheKey) (*model.StagedOrder, error)
}

// CheckoutClaimer guards the gateway submit step against concurrent checkouts
// by the same user for the same fare rule.
type CheckoutClaimer interface {
	// Claim atomically takes the (userID, ruleID) slot for window. It returns
	// domain.ErrCheckoutInProgress if the slot is already held.
	Claim(ctx context.Context, userID string, ruleID int64, window time.Duration) (token string, err error)
	// Release frees a claim held with token; releasing an expired or foreign claim is a no-op.
	Release(ctx context.Context, userID string, ruleID int64, token string) error
}

// NewOrderCacheKey builds the composite key. Parts are query-escaped so the ':'
// separator cannot occur inside them.
func NewOrderCacheKey(userID, publicID string) OrderCacheKey {
	return OrderCacheKey("order_cache:" + url.QueryEscape(userID) + ":" + url.QueryEscape(publicID))
}
