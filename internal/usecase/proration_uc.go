package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"subscription-billing/internal/domain"
	"subscription-billing/internal/domain/model"
	"subscription-billing/internal/domain/ports/repository"
	"subscription-billing/internal/domain/pricing"
	"subscription-billing/internal/infra/logging"
	"subscription-billing/internal/infra/metrics"
)

// ProrationUseCase computes credit for unused subscription days.
type ProrationUseCase interface {
	// Credit is the leftover value of orderID. It is never negative; an absent
	// usage window yields zero.
	Credit(ctx context.Context, userID, orderID string) (decimal.Decimal, error)
	// CheckFreePrice prices a switch to publicID for months with the current credit applied.
	CheckFreePrice(ctx context.Context, userID, publicID string, months int) (*model.FreePriceResult, error)
}

var _ ProrationUseCase = (*prorationUC)(nil)

type prorationUC struct {
	subs   repository.SubscriptionRepository
	orders repository.OrderRepository
	rules  repository.FareRuleRepository
	log    *zerolog.Logger
}

func NewProrationUseCase(
	subs repository.SubscriptionRepository,
	orders repository.OrderRepository,
	rules repository.FareRuleRepository,
	logger *zerolog.Logger,
) ProrationUseCase {
	return &prorationUC{subs: subs, orders: orders, rules: rules, log: logger}
}

func (p *prorationUC) Credit(ctx context.Context, userID, orderID string) (decimal.Decimal, error) {
	log := logging.With(ctx, p.log)

	window, err := p.subs.UsageWindow(ctx, repository.NoTX, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if !window.Complete() {
		metrics.IncProrationAnomaly("window_missing")
		log.Warn().Str("order_id", orderID).Msg("subscription window incomplete, no credit")
		return decimal.Zero, nil
	}

	details, err := p.orders.GetOrderDetails(ctx, repository.NoTX, orderID, userID)
	if err != nil {
		return decimal.Zero, err
	}

	usedDays := window.UsedDays()
	credit := pricing.ProrationCredit(details.Price, usedDays)
	switch {
	case credit.IsZero():
		metrics.IncProrationAnomaly("zero")
		log.Warn().Str("order_id", orderID).Int64("used_days", usedDays).Msg("proration credit is zero")
	case credit.IsNegative():
		metrics.IncProrationAnomaly("negative")
		logging.Critical(log).
			Err(domain.ErrInvariantViolation).
			Str("order_id", orderID).
			Int64("used_days", usedDays).
			Str("order_price", details.Price.String()).
			Str("credit", credit.String()).
			Msg("negative proration credit, forcing zero")
		return decimal.Zero, nil
	}
	return credit, nil
}

func (p *prorationUC) CheckFreePrice(ctx context.Context, userID, publicID string, months int) (*model.FreePriceResult, error) {
	rule, err := p.rules.GetByPublicID(ctx, repository.NoTX, publicID)
	if err != nil {
		return nil, err
	}
	fullPrice, err := pricing.ServicePrice(months, rule.Price)
	if err != nil {
		return nil, err
	}

	sub, err := p.subs.FindActiveByUser(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	orderID, err := p.orders.FindActiveOrderID(ctx, repository.NoTX, sub.Months, userID)
	if err != nil {
		return nil, err
	}
	credit, err := p.Credit(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	result := &model.FreePriceResult{FreePrice: decimal.Zero, Price: fullPrice}
	switch {
	case credit.IsZero():
	case fullPrice.GreaterThan(credit):
		result.FreePrice = fullPrice.Sub(credit)
	default:
		// surplus credit is not carried over
		result.FreePrice = credit
	}
	return result, nil
}
