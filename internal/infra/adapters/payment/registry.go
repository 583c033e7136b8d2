package payment

import (
	"strings"

	"github.com/cockroachdb/errors"

	"subscription-billing/internal/config"
	"subscription-billing/internal/domain"
	"subscription-billing/internal/domain/ports/adapter"
)

var _ adapter.GatewayRegistry = (*Registry)(nil)

// Registry holds payment processors keyed by name.
type Registry struct {
	gateways map[string]adapter.PaymentGateway
	def      string
}

// NewRegistry registers gateways under their Name(); def must be one of them.
func NewRegistry(def string, gateways ...adapter.PaymentGateway) (*Registry, error) {
	r := &Registry{gateways: make(map[string]adapter.PaymentGateway, len(gateways)), def: strings.ToLower(def)}
	for _, g := range gateways {
		name := strings.ToLower(g.Name())
		if _, dup := r.gateways[name]; dup {
			return nil, errors.Newf("payment gateway %q registered twice", name)
		}
		r.gateways[name] = g
	}
	if _, ok := r.gateways[r.def]; !ok {
		return nil, errors.Wrapf(domain.ErrUnknownGateway, "default gateway %q", def)
	}
	return r, nil
}

// NewRegistryFromConfig builds every enabled processor.
func NewRegistryFromConfig(cfg config.Config) (*Registry, error) {
	var gateways []adapter.PaymentGateway
	if cfg.Payment.PayMaster.Enabled {
		g, err := NewPayMasterGateway(cfg.Payment.PayMaster)
		if err != nil {
			return nil, err
		}
		gateways = append(gateways, g)
	}
	if cfg.Payment.ZarinPal.Enabled {
		g, err := NewZarinPalGateway(cfg.Payment.ZarinPal)
		if err != nil {
			return nil, err
		}
		gateways = append(gateways, g)
	}
	if cfg.Payment.Stripe.Enabled {
		g, err := NewStripeGateway(cfg.Payment.Stripe)
		if err != nil {
			return nil, err
		}
		gateways = append(gateways, g)
	}
	if cfg.Payment.Noop.Enabled {
		gateways = append(gateways, NewNoopPaymentGateway())
	}
	return NewRegistry(cfg.Commerce.Gateway, gateways...)
}

func (r *Registry) Get(name string) (adapter.PaymentGateway, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = r.def
	}
	g, ok := r.gateways[name]
	if !ok {
		return nil, errors.Wrapf(domain.ErrUnknownGateway, "%q", name)
	}
	return g, nil
}

func (r *Registry) Default() string { return r.def }
