package repository

import (
	"context"

	"subscription-billing/internal/domain/model"
)

// FareRuleRepository is the read port for published fare rules.
// Lookups return domain.ErrNotFound when no rule matches.
type FareRuleRepository interface {
	GetByPublicID(ctx context.Context, tx Tx, publicID string) (*model.FareRule, error)
	GetByID(ctx context.Context, tx Tx, ruleID int64) (*model.FareRule, error)
}

// DiscountRepository looks up percent discounts by purchased months and category.
type DiscountRepository interface {
	// GetPercentDiscount returns zero when no discount rule matches.
	GetPercentDiscount(ctx context.Context, tx Tx, months int, category model.DiscountCategory) (model.DiscountRate, error)
}
