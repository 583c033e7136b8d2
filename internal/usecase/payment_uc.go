package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"subscription-billing/internal/domain"
	"subscription-billing/internal/domain/model"
	"subscription-billing/internal/domain/ports/adapter"
	"subscription-billing/internal/domain/ports/repository"
	"subscription-billing/internal/domain/pricing"
	"subscription-billing/internal/infra/logging"
	"subscription-billing/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type PaymentUseCase interface {
	// CreateOrder charges account for a fare rule through a payment gateway and
	// returns the local order id with the payer redirect URL.
	CreateOrder(ctx context.Context, input CreateOrderInput, account string) (*model.CreatedOrder, error)
}

// PaymentOptions are the commerce settings the checkout needs.
type PaymentOptions struct {
	Currency    string
	ClaimWindow time.Duration
}

type paymentUC struct {
	users    repository.UserRepository
	rules    repository.FareRuleRepository
	orders   repository.OrderRepository
	pricing  PricingUseCase
	gateways adapter.GatewayRegistry
	claimer  repository.CheckoutClaimer
	tm       repository.TransactionManager
	opts     PaymentOptions
	log      *zerolog.Logger
}

func NewPaymentUseCase(
	users repository.UserRepository,
	rules repository.FareRuleRepository,
	orders repository.OrderRepository,
	pricing PricingUseCase,
	gateways adapter.GatewayRegistry,
	claimer repository.CheckoutClaimer,
	tm repository.TransactionManager,
	opts PaymentOptions,
	logger *zerolog.Logger,
) *paymentUC {
	return &paymentUC{
		users:    users,
		rules:    rules,
		orders:   orders,
		pricing:  pricing,
		gateways: gateways,
		claimer:  claimer,
		tm:       tm,
		opts:     opts,
		log:      logger,
	}
}

func (u *paymentUC) CreateOrder(ctx context.Context, input CreateOrderInput, account string) (*model.CreatedOrder, error) {
	defer logging.TraceDuration(u.log, "PaymentUC.CreateOrder")()

	if err := validateInput(input); err != nil {
		return nil, err
	}
	s := newCheckoutSaga(input)
	out, err := u.run(ctx, s, account)
	if err != nil {
		metrics.IncCheckoutFailure(string(s.failedStep()))
		logging.With(ctx, u.log).Warn().Err(err).
			Str("account", logging.Redact(account, false)).
			Object("saga", s).
			Msg("checkout failed")
		return nil, err
	}
	return out, nil
}

func (u *paymentUC) run(ctx context.Context, s *checkoutSaga, account string) (out *model.CreatedOrder, err error) {
	// 1. eligibility
	userID, err := u.users.ResolveAccount(ctx, repository.NoTX, account)
	if err != nil {
		return nil, s.fail(StepEligibility, err)
	}
	s.userID = userID
	ctx = logging.WithUserID(ctx, userID)
	empty, err := u.users.IsProfileEmpty(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, s.fail(StepEligibility, err)
	}
	if empty {
		return nil, s.fail(StepEligibility, domain.ErrPreconditionFailed)
	}
	s.done(StepEligibility)

	// 2. plan and processor
	if s.rule, err = u.rules.GetByID(ctx, repository.NoTX, s.input.FareRuleID); err != nil {
		return nil, s.fail(StepResolvePlan, err)
	}
	if s.gateway, err = u.gateways.Get(s.input.Gateway); err != nil {
		return nil, s.fail(StepResolvePlan, err)
	}
	s.done(StepResolvePlan)

	// one checkout per (user, fare rule) until the claim window passes
	if s.token, err = u.claimer.Claim(ctx, userID, s.rule.RuleID, u.opts.ClaimWindow); err != nil {
		return nil, s.fail(StepClaim, err)
	}
	s.done(StepClaim)
	defer func() {
		if err != nil && !s.submitted() {
			if rerr := u.claimer.Release(context.WithoutCancel(ctx), userID, s.rule.RuleID, s.token); rerr != nil {
				logging.With(ctx, u.log).Warn().Err(rerr).Msg("release checkout claim failed")
			}
		}
	}()

	// 3. request build
	if s.quote, err = u.pricing.Quote(ctx, s.rule, s.input.Months, model.DiscountCategoryService); err != nil {
		return nil, s.fail(StepPrice, err)
	}
	s.amount = pricing.ChargeAmount(s.quote.Price, u.opts.Currency)
	s.orderNo = ulid.Make().String()
	s.done(StepPrice)

	// From here on the flow is not cancellable; gateway timeouts bound it.
	return u.submit(context.WithoutCancel(ctx), s)
}

func (u *paymentUC) submit(ctx context.Context, s *checkoutSaga) (*model.CreatedOrder, error) {
	log := logging.With(ctx, u.log)
	req := adapter.PaymentRequest{
		OrderNo:     s.orderNo,
		Amount:      s.amount,
		Currency:    u.opts.Currency,
		Description: fmt.Sprintf("%s, %d mo.", s.rule.Name, s.input.Months),
		FareRuleID:  s.rule.RuleID,
		FareRule:    s.rule.Name,
		UserID:      s.userID,
		ReturnURL:   s.input.ReturnURL,
	}

	// 4. submit
	intent, err := s.gateway.CreatePayment(ctx, req)
	if err != nil {
		log.Error().Err(err).Object("saga", s).Msg("gateway create-payment failed")
		return nil, s.fail(StepSubmit, domain.ErrGatewayFault)
	}
	s.done(StepSubmit)

	// 5. acceptance
	if intent == nil || intent.PaymentID == "" {
		log.Error().Object("saga", s).Msg("gateway accepted without a payment id")
		return nil, s.fail(StepParse, domain.ErrGatewayFault)
	}
	s.intent = intent
	s.done(StepParse)

	// 6. status
	status, err := s.gateway.PaymentStatus(ctx, intent.PaymentID)
	if err != nil || status == nil || status.Status == "" {
		log.Error().Err(err).Object("saga", s).Msg("gateway payment-status failed")
		return nil, s.fail(StepStatus, domain.ErrGatewayFault)
	}
	s.status = status
	s.done(StepStatus)

	// 7. persist
	created := status.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}
	s.record = &model.OrderRecord{
		OrderID:       uuid.NewString(),
		PaymentID:     intent.PaymentID,
		Gateway:       s.gateway.Name(),
		UserID:        s.userID,
		FareRuleID:    s.rule.RuleID,
		Months:        s.input.Months,
		RuleName:      s.rule.Name,
		Description:   req.Description,
		Amount:        s.amount,
		Quantity:      1,
		Currency:      u.opts.Currency,
		CreatedAt:     created,
		GatewayStatus: status.Status,
		Status:        model.OrderStatusPending,
	}
	err = u.tm.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return u.orders.Save(ctx, tx, s.record)
	})
	if err != nil {
		// The gateway holds a payment with no local order.
		logging.Critical(log).Err(err).
			Object("saga", s).
			Str("amount", s.amount.String()).
			Msg("order persist failed after gateway acceptance")
		return nil, s.fail(StepPersist, errors.Mark(errors.Wrap(err, "persist order"), domain.ErrOperationFailed))
	}
	s.done(StepPersist)
	metrics.IncOrderCreated(s.gateway.Name())
	metrics.AddOrderAmount(u.opts.Currency, s.amount)

	// 8. translate
	s.done(StepTranslate)
	log.Info().Str("order_id", s.record.OrderID).Object("saga", s).Msg("order created")
	return &model.CreatedOrder{OrderID: s.record.OrderID, RedirectURL: intent.URL}, nil
}
