package repository

import (
	"context"

	"subscription-billing/internal/domain/model"
)

// SubscriptionRepository is the read port for user subscriptions.
type SubscriptionRepository interface {
	// FindActiveByUser returns domain.ErrNotFound when the user has no active paid subscription.
	FindActiveByUser(ctx context.Context, tx Tx, userID string) (*model.UserSubscription, error)
	// UsageWindow returns the usage period of the active subscription; bounds may be nil.
	UsageWindow(ctx context.Context, tx Tx, userID string) (model.SubscriptionWindow, error)
}
