package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"subscription-billing/internal/domain/model"
	"subscription-billing/internal/domain/ports/repository"
	"subscription-billing/internal/infra/logging"
)

// CommerceUseCase serves order staging and upgrade pricing for an account.
// It only maps external identifiers to internal ones and delegates.
type CommerceUseCase interface {
	StageOrder(ctx context.Context, input StageOrderInput, account string) (*model.StagedOrder, error)
	GetStagedOrder(ctx context.Context, publicID, account string) (*model.StagedOrder, error)
	CheckFreePrice(ctx context.Context, account, publicID string, months int) (*model.FreePriceResult, error)
}

var _ CommerceUseCase = (*commerceUC)(nil)

type commerceUC struct {
	users     repository.UserRepository
	rules     repository.FareRuleRepository
	cache     repository.OrderCacheStore
	pricing   PricingUseCase
	proration ProrationUseCase
	ttl       time.Duration
	log       *zerolog.Logger
}

func NewCommerceUseCase(
	users repository.UserRepository,
	rules repository.FareRuleRepository,
	cache repository.OrderCacheStore,
	pricing PricingUseCase,
	proration ProrationUseCase,
	orderTTL time.Duration,
	logger *zerolog.Logger,
) CommerceUseCase {
	return &commerceUC{
		users:     users,
		rules:     rules,
		cache:     cache,
		pricing:   pricing,
		proration: proration,
		ttl:       orderTTL,
		log:       logger,
	}
}

// discountLabel is the line item shown when a discount lowers the price.
func discountLabel(q Quote) string {
	return fmt.Sprintf("Discount on fare rule %s%%", q.DiscountPercent.String())
}

func (c *commerceUC) StageOrder(ctx context.Context, input StageOrderInput, account string) (*model.StagedOrder, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	userID, err := c.users.ResolveAccount(ctx, repository.NoTX, account)
	if err != nil {
		return nil, err
	}
	ctx = logging.WithUserID(ctx, userID)

	rule, err := c.rules.GetByPublicID(ctx, repository.NoTX, input.PublicID)
	if err != nil {
		return nil, err
	}
	quote, err := c.pricing.Quote(ctx, rule, input.Months, model.DiscountCategoryService)
	if err != nil {
		return nil, err
	}

	labels := []string{}
	if quote.Discounted() {
		labels = append(labels, discountLabel(quote))
	}
	staged := &model.StagedOrder{
		RuleID:          rule.RuleID,
		Months:          input.Months,
		DiscountPercent: quote.DiscountPercent,
		Price:           quote.Price,
		UserID:          userID,
		ProductLabels:   labels,
		FareRuleName:    rule.Name,
	}

	key := c.cache.Key(userID, rule.PublicID)
	if err := c.cache.Stage(ctx, key, staged, c.ttl); err != nil {
		logging.With(ctx, c.log).Error().Err(err).Str("public_id", rule.PublicID).Msg("stage order failed")
		return nil, err
	}
	logging.With(ctx, c.log).Debug().
		Int64("rule_id", rule.RuleID).
		Int("months", input.Months).
		Str("price", quote.Price.String()).
		Msg("order staged")
	return staged, nil
}

func (c *commerceUC) GetStagedOrder(ctx context.Context, publicID, account string) (*model.StagedOrder, error) {
	userID, err := c.users.ResolveAccount(ctx, repository.NoTX, account)
	if err != nil {
		return nil, err
	}
	return c.cache.Read(ctx, c.cache.Key(userID, publicID))
}

func (c *commerceUC) CheckFreePrice(ctx context.Context, account, publicID string, months int) (*model.FreePriceResult, error) {
	if err := validateInput(FreePriceInput{PublicID: publicID, Months: months}); err != nil {
		return nil, err
	}
	userID, err := c.users.ResolveAccount(ctx, repository.NoTX, account)
	if err != nil {
		return nil, err
	}
	return c.proration.CheckFreePrice(logging.WithUserID(ctx, userID), userID, publicID, months)
}
