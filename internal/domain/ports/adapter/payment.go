package adapter

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest is the processor-agnostic input for creating a payment.
// Each gateway builds its own wire payload from it.
type PaymentRequest struct {
	OrderNo     string          // merchant-side invoice number
	Amount      decimal.Decimal // major currency units
	Currency    string
	Description string
	FareRuleID  int64
	FareRule    string // fare rule display name
	UserID      string
	ReturnURL   string // where the payer lands after paying; gateway default if empty
}

// PaymentIntent is the processor's acceptance of a create-payment request.
type PaymentIntent struct {
	PaymentID string // never empty on success
	URL       string // payer redirect
}

// PaymentStatus is the processor's view of a payment.
type PaymentStatus struct {
	PaymentID string
	Status    string
	Created   time.Time
}

// PaymentGateway is the hex port for payment processors.
// Calls are synchronous and never retried by the implementation.
type PaymentGateway interface {
	Name() string

	// CreatePayment submits a create-payment request. A non-success response or a
	// response without a payment id is an error.
	CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentIntent, error)
	// PaymentStatus queries the processor for paymentID. An empty response is an error.
	PaymentStatus(ctx context.Context, paymentID string) (*PaymentStatus, error)
}

// GatewayRegistry resolves processors by configured name.
type GatewayRegistry interface {
	// Get returns domain.ErrUnknownGateway for unregistered names; "" selects the default.
	Get(name string) (PaymentGateway, error)
	Default() string
}
