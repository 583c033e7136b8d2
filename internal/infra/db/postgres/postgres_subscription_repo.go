package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"subscription-billing/internal/domain/model"
	"subscription-billing/internal/domain/ports/repository"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

// Save inserts a subscription with its usage window and fills ID.
func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.UserSubscription, w model.SubscriptionWindow) error {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	const q = `
INSERT INTO user_subscriptions (user_id, fare_rule_id, months, status, start_date, end_date, created_at)
VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)
RETURNING id;`
	return ex.QueryRow(ctx, q, s.UserID, s.FareRuleID, s.Months, string(s.Status), w.StartDate, w.EndDate, s.CreatedAt).Scan(&s.ID)
}

func (r *subscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.UserSubscription, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	const q = `
SELECT id, user_id::text, fare_rule_id, months, status, created_at
  FROM user_subscriptions
 WHERE user_id::text = $1 AND status = 'active'
 ORDER BY created_at DESC
 LIMIT 1;`
	var (
		s      model.UserSubscription
		status string
	)
	if err := ex.QueryRow(ctx, q, userID).Scan(&s.ID, &s.UserID, &s.FareRuleID, &s.Months, &status, &s.CreatedAt); err != nil {
		return nil, rowErr(err, "active subscription")
	}
	s.Status = model.SubscriptionStatus(status)
	return &s, nil
}

// UsageWindow returns an empty window when the user has no active subscription.
func (r *subscriptionRepo) UsageWindow(ctx context.Context, tx repository.Tx, userID string) (model.SubscriptionWindow, error) {
	var w model.SubscriptionWindow
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return w, err
	}
	const q = `
SELECT start_date, end_date
  FROM user_subscriptions
 WHERE user_id::text = $1 AND status = 'active'
 ORDER BY created_at DESC
 LIMIT 1;`
	if err := ex.QueryRow(ctx, q, userID).Scan(&w.StartDate, &w.EndDate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SubscriptionWindow{}, nil
		}
		return w, rowErr(err, "subscription window")
	}
	return w, nil
}
