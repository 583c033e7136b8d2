package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

func init() {
	register(
		ordersCreatedTotal,
		ordersAmountTotal,
		gatewayCallsTotal,
		checkoutClaimsTotal,
		checkoutFailuresTotal,
	)
}

var (
	ordersCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders persisted after gateway acceptance, by gateway.",
		},
		[]string{"gateway"},
	)

	ordersAmountTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_amount_total",
			Help: "Total amount of created orders, labeled by currency.",
		},
		[]string{"currency"},
	)

	gatewayCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_calls_total",
			Help: "Payment gateway calls by gateway, operation (create|status) and result.",
		},
		[]string{"gateway", "op", "result"},
	)

	checkoutClaimsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_claims_total",
			Help: "Checkout claim attempts by result (acquired|busy|error).",
		},
		[]string{"result"},
	)

	checkoutFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_failures_total",
			Help: "Failed checkouts by the saga step that failed.",
		},
		[]string{"step"},
	)
)

func IncOrderCreated(gateway string) {
	ordersCreatedTotal.WithLabelValues(norm(gateway)).Inc()
}

func AddOrderAmount(currency string, amount decimal.Decimal) {
	ordersAmountTotal.WithLabelValues(norm(currency)).Add(amount.InexactFloat64())
}

func IncGatewayCall(gateway, op string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	gatewayCallsTotal.WithLabelValues(norm(gateway), norm(op), result).Inc()
}

func IncCheckoutClaim(result string) {
	checkoutClaimsTotal.WithLabelValues(norm(result)).Inc()
}

func IncCheckoutFailure(step string) {
	checkoutFailuresTotal.WithLabelValues(norm(step)).Inc()
}
