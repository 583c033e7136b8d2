package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"subscription-billing/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopPaymentGateway)(nil)

// NoopPaymentGateway is a simple in-memory gateway for local runs and tests.
type NoopPaymentGateway struct {
	mu       sync.Mutex
	seq      int64
	payments map[string]time.Time // payment id -> created
}

func NewNoopPaymentGateway() *NoopPaymentGateway {
	return &NoopPaymentGateway{
		payments: make(map[string]time.Time),
	}
}

func (g *NoopPaymentGateway) Name() string { return "noop" }

func (g *NoopPaymentGateway) next() string {
	g.seq++
	return fmt.Sprintf("noop-%d", g.seq)
}

func (g *NoopPaymentGateway) CreatePayment(ctx context.Context, req adapter.PaymentRequest) (*adapter.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next()
	g.payments[id] = time.Now().UTC()
	return &adapter.PaymentIntent{PaymentID: id, URL: "https://example.test/pay/" + id}, nil
}

func (g *NoopPaymentGateway) PaymentStatus(ctx context.Context, paymentID string) (*adapter.PaymentStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	created, ok := g.payments[paymentID]
	if !ok {
		return nil, fault(g.Name(), "status", errors.Newf("payment %s not found", paymentID))
	}
	return &adapter.PaymentStatus{PaymentID: paymentID, Status: "Pending", Created: created}, nil
}
