package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/oklog/ulid/v2"

	"subscription-billing/internal/domain"
	"subscription-billing/internal/domain/ports/repository"
	"subscription-billing/internal/infra/metrics"
)

var _ repository.CheckoutClaimer = (*CheckoutClaimer)(nil)

// CheckoutClaimer implements the checkout claim as SET NX with an expiry window.
// There is no retry: a held claim means another checkout for the same plan is running.
type CheckoutClaimer struct {
	client RedisClient
}

func NewCheckoutClaimer(client RedisClient) *CheckoutClaimer {
	return &CheckoutClaimer{client: client}
}

func claimKey(userID string, ruleID int64) string {
	return fmt.Sprintf("checkout_claim:%s:%d", userID, ruleID)
}

func (c *CheckoutClaimer) Claim(ctx context.Context, userID string, ruleID int64, window time.Duration) (string, error) {
	if userID == "" || ruleID <= 0 || window <= 0 {
		return "", domain.ErrInvalidArgument
	}
	token := ulid.Make().String()
	ok, err := c.client.SetNX(ctx, claimKey(userID, ruleID), token, window)
	if err != nil {
		metrics.IncCheckoutClaim("error")
		return "", errors.Wrap(err, "checkout claim")
	}
	if !ok {
		metrics.IncCheckoutClaim("busy")
		return "", domain.ErrCheckoutInProgress
	}
	metrics.IncCheckoutClaim("acquired")
	return token, nil
}

func (c *CheckoutClaimer) Release(ctx context.Context, userID string, ruleID int64, token string) error {
	if token == "" {
		return nil
	}
	_, err := c.client.DelIfEquals(ctx, claimKey(userID, ruleID), token)
	return err
}
