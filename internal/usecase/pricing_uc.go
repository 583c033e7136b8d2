package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"subscription-billing/internal/domain"
	"subscription-billing/internal/domain/model"
	"subscription-billing/internal/domain/ports/repository"
	"subscription-billing/internal/domain/pricing"
)

// Quote is a priced fare rule for a number of months.
type Quote struct {
	FullPrice       decimal.Decimal // monthly price * months
	DiscountPercent decimal.Decimal
	Price           decimal.Decimal // FullPrice after discount
}

// Discounted reports whether the discount actually lowered the price.
func (q Quote) Discounted() bool { return q.Price.LessThan(q.FullPrice) }

// PricingUseCase combines the discount lookup with the pure price arithmetic.
type PricingUseCase interface {
	// DiscountRate returns the percent for (months, category); zero when none applies.
	DiscountRate(ctx context.Context, months int, category model.DiscountCategory) (decimal.Decimal, error)
	Quote(ctx context.Context, rule *model.FareRule, months int, category model.DiscountCategory) (Quote, error)
}

var _ PricingUseCase = (*pricingUC)(nil)

type pricingUC struct {
	discounts repository.DiscountRepository
	log       *zerolog.Logger
}

func NewPricingUseCase(discounts repository.DiscountRepository, logger *zerolog.Logger) PricingUseCase {
	return &pricingUC{discounts: discounts, log: logger}
}

func (p *pricingUC) DiscountRate(ctx context.Context, months int, category model.DiscountCategory) (decimal.Decimal, error) {
	rate, err := p.discounts.GetPercentDiscount(ctx, repository.NoTX, months, category)
	if err != nil {
		return decimal.Zero, err
	}
	percent := rate.Percent
	if percent.IsNegative() || percent.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		p.log.Warn().
			Str("percent", percent.String()).
			Int("months", months).
			Str("category", string(category)).
			Msg("discount out of range, ignoring")
		return decimal.Zero, nil
	}
	return percent, nil
}

func (p *pricingUC) Quote(ctx context.Context, rule *model.FareRule, months int, category model.DiscountCategory) (Quote, error) {
	if rule.IsZero() {
		return Quote{}, errors.Wrap(domain.ErrInvalidArgument, "fare rule is empty")
	}
	full, err := pricing.ServicePrice(months, rule.Price)
	if err != nil {
		return Quote{}, err
	}
	percent, err := p.DiscountRate(ctx, months, category)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		FullPrice:       full,
		DiscountPercent: percent,
		Price:           pricing.ApplyDiscount(percent, full),
	}, nil
}
