package usecase

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"subscription-billing/internal/domain/model"
	"subscription-billing/internal/domain/ports/adapter"
)

// CheckoutStep names one step of order creation, in execution order.
type CheckoutStep string

const (
	StepEligibility CheckoutStep = "eligibility"
	StepResolvePlan CheckoutStep = "resolve_plan"
	StepClaim       CheckoutStep = "claim"
	StepPrice       CheckoutStep = "price"
	StepSubmit      CheckoutStep = "submit"
	StepParse       CheckoutStep = "parse"
	StepStatus      CheckoutStep = "status"
	StepPersist     CheckoutStep = "persist"
	StepTranslate   CheckoutStep = "translate"
)

type stepOutcome struct {
	step CheckoutStep
	err  error
	at   time.Time
}

// checkoutSaga carries the state of one order creation attempt. Steps run strictly
// in order and none is retried; the outcome list is what a compensating layer would read.
type checkoutSaga struct {
	userID  string
	input   CreateOrderInput
	gateway adapter.PaymentGateway
	rule    *model.FareRule
	quote   Quote
	amount  decimal.Decimal // quote price at the currency's charge precision
	orderNo string
	token   string // checkout claim
	intent  *adapter.PaymentIntent
	status  *adapter.PaymentStatus
	record  *model.OrderRecord

	outcomes []stepOutcome
}

func newCheckoutSaga(input CreateOrderInput) *checkoutSaga {
	return &checkoutSaga{input: input}
}

func (s *checkoutSaga) done(step CheckoutStep) {
	s.outcomes = append(s.outcomes, stepOutcome{step: step, at: time.Now()})
}

// fail records the failed step and returns err unchanged.
func (s *checkoutSaga) fail(step CheckoutStep, err error) error {
	s.outcomes = append(s.outcomes, stepOutcome{step: step, err: err, at: time.Now()})
	return err
}

// lastCompleted is the last step that succeeded, or "" if none did.
func (s *checkoutSaga) lastCompleted() CheckoutStep {
	for i := len(s.outcomes) - 1; i >= 0; i-- {
		if s.outcomes[i].err == nil {
			return s.outcomes[i].step
		}
	}
	return ""
}

// failedStep is the step that ended the saga, or "" if it has not failed.
func (s *checkoutSaga) failedStep() CheckoutStep {
	if n := len(s.outcomes); n > 0 && s.outcomes[n-1].err != nil {
		return s.outcomes[n-1].step
	}
	return ""
}

// submitted reports whether the gateway has been contacted.
func (s *checkoutSaga) submitted() bool {
	for _, o := range s.outcomes {
		if o.step == StepSubmit {
			return true
		}
	}
	return false
}

func (s *checkoutSaga) MarshalZerologObject(e *zerolog.Event) {
	e.Str("failed_step", string(s.failedStep())).
		Str("last_completed", string(s.lastCompleted())).
		Str("order_no", s.orderNo)
	if s.rule != nil {
		e.Int64("fare_rule_id", s.rule.RuleID)
	}
	if s.gateway != nil {
		e.Str("gateway", s.gateway.Name())
	}
	if s.intent != nil {
		e.Str("payment_id", s.intent.PaymentID)
	}
}
