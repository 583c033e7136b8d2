package payment

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stripe/stripe-go/v82"

	"subscription-billing/internal/config"
	"subscription-billing/internal/domain/pricing"
	"subscription-billing/internal/domain/ports/adapter"
	"subscription-billing/internal/infra/metrics"
)

var _ adapter.PaymentGateway = (*StripeGateway)(nil)

// StripeGateway creates hosted Checkout Sessions; the session id is the payment id.
type StripeGateway struct {
	client     *stripe.Client
	successURL string
	cancelURL  string
}

func NewStripeGateway(cfg config.StripeConfig) (*StripeGateway, error) {
	return newStripeGateway(cfg, "")
}

// newStripeGateway points the client at apiURL when non-empty.
func newStripeGateway(cfg config.StripeConfig, apiURL string) (*StripeGateway, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe: secret key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultGatewayTimeout
	}
	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
	}
	if apiURL != "" {
		backendCfg.URL = stripe.String(apiURL)
	}
	sc := stripe.NewClient(cfg.SecretKey, stripe.WithBackends(stripe.NewBackendsWithConfig(backendCfg)))
	return &StripeGateway{client: sc, successURL: cfg.SuccessURL, cancelURL: cfg.CancelURL}, nil
}

func (g *StripeGateway) Name() string { return "stripe" }

func (g *StripeGateway) CreatePayment(ctx context.Context, req adapter.PaymentRequest) (*adapter.PaymentIntent, error) {
	successURL := req.ReturnURL
	if successURL == "" {
		successURL = g.successURL
	}
	cancelURL := g.cancelURL
	if cancelURL == "" {
		cancelURL = successURL
	}
	unitAmount, err := pricing.MinorUnits(req.Amount, req.Currency)
	if err != nil {
		metrics.IncGatewayCall(g.Name(), "create", false)
		return nil, fault(g.Name(), "checkout", err)
	}
	metadata := map[string]string{
		"order_no":     req.OrderNo,
		"user_id":      req.UserID,
		"fare_rule_id": strconv.FormatInt(req.FareRuleID, 10),
	}
	params := &stripe.CheckoutSessionCreateParams{
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(req.Currency)),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name:        stripe.String(req.FareRule),
						Description: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(unitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(successURL),
		CancelURL:         stripe.String(cancelURL),
		ClientReferenceID: stripe.String(req.OrderNo),
		Metadata:          metadata,
	}

	session, err := g.client.V1CheckoutSessions.Create(ctx, params)
	if err == nil && (session == nil || session.ID == "") {
		err = errors.New("checkout session has no id")
	}
	metrics.IncGatewayCall(g.Name(), "create", err == nil)
	if err != nil {
		return nil, fault(g.Name(), "checkout-session", err)
	}
	return &adapter.PaymentIntent{PaymentID: session.ID, URL: session.URL}, nil
}

func (g *StripeGateway) PaymentStatus(ctx context.Context, sessionID string) (*adapter.PaymentStatus, error) {
	session, err := g.client.V1CheckoutSessions.Retrieve(ctx, sessionID, nil)
	if err == nil && (session == nil || session.Status == "") {
		err = errors.New("checkout session has no status")
	}
	metrics.IncGatewayCall(g.Name(), "status", err == nil)
	if err != nil {
		return nil, fault(g.Name(), "checkout-session-status", err)
	}
	return &adapter.PaymentStatus{
		PaymentID: session.ID,
		Status:    string(session.Status),
		Created:   time.Unix(session.Created, 0).UTC(),
	}, nil
}
