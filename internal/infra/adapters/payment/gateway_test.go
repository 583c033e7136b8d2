//go:build !integration

package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subscription-billing/internal/config"
	"subscription-billing/internal/domain"
	"subscription-billing/internal/domain/ports/adapter"
)

func testRequest() adapter.PaymentRequest {
	return adapter.PaymentRequest{
		OrderNo:     "01J0000000000000000000TEST",
		Amount:      decimal.NewFromInt(2700),
		Currency:    "RUB",
		Description: "Business, 3 months",
		FareRuleID:  7,
		FareRule:    "Business",
		UserID:      "user-1",
	}
}

func newPayMaster(t *testing.T, srv *httptest.Server) *PayMasterGateway {
	t.Helper()
	g, err := NewPayMasterGateway(config.PayMasterConfig{
		BaseURL:    srv.URL,
		MerchantID: "merchant-1",
		APIToken:   "secret-token",
		ReturnURL:  "https://shop.test/return",
		Timeout:    time.Second,
	})
	require.NoError(t, err)
	return g
}

func TestPayMasterGateway_CreateAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodPost && r.URL.Path == payMasterCreatePath:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "merchant-1", body["merchantId"])
			amount := body["amount"].(map[string]any)
			assert.Equal(t, 2700.0, amount["value"])
			assert.Equal(t, "RUB", amount["currency"])
			protocol := body["protocol"].(map[string]any)
			assert.Equal(t, "https://shop.test/return", protocol["returnUrl"])
			_, _ = w.Write([]byte(`{"paymentId":"pm-42","url":"https://paymaster.test/pay/pm-42"}`))
		case r.Method == http.MethodGet && r.URL.Path == payMasterStatusPath+"pm-42":
			_, _ = w.Write([]byte(`{"id":"pm-42","created":"2026-01-01T10:00:00Z","status":"Pending"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	g := newPayMaster(t, srv)
	ctx := context.Background()

	intent, err := g.CreatePayment(ctx, testRequest())
	require.NoError(t, err)
	assert.Equal(t, "pm-42", intent.PaymentID)
	assert.Equal(t, "https://paymaster.test/pay/pm-42", intent.URL)

	status, err := g.PaymentStatus(ctx, intent.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, "Pending", status.Status)
	assert.Equal(t, time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC), status.Created)
}

func TestPayMasterGateway_Faults(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http 500", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal", http.StatusInternalServerError)
		}},
		{"missing payment id", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"url":"https://paymaster.test/pay/x"}`))
		}},
		{"empty body", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			_, err := newPayMaster(t, srv).CreatePayment(context.Background(), testRequest())
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrGatewayFault)
		})
	}
}

func TestPayMasterGateway_StatusFaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case payMasterStatusPath + "no-status":
			_, _ = w.Write([]byte(`{"id":"no-status","created":"2026-01-01T10:00:00Z"}`))
		case payMasterStatusPath + "bad-created":
			_, _ = w.Write([]byte(`{"id":"bad-created","created":"yesterday","status":"Pending"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()
	g := newPayMaster(t, srv)

	for _, id := range []string{"no-status", "bad-created", "unknown"} {
		_, err := g.PaymentStatus(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrGatewayFault, id)
	}
}

func TestParseCreated(t *testing.T) {
	got, err := parseCreated("2026-03-01T08:30:00.123")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 30, 0, 123000000, time.UTC), got)

	got, err = parseCreated("2026-03-01T08:30:00+03:00")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Hour())
}

func TestZarinPalGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "zp-merchant", body["merchant_id"])
		switch r.URL.Path {
		case "/payment/request.json":
			assert.Equal(t, 2700.0, body["amount"])
			_, _ = w.Write([]byte(`{"data":{"code":100,"authority":"A0000001"},"errors":[]}`))
		case "/payment/inquiry.json":
			if body["authority"] == "A0000001" {
				_, _ = w.Write([]byte(`{"data":{"code":100,"status":"PAID","message":"ok"},"errors":[]}`))
				return
			}
			_, _ = w.Write([]byte(`{"data":{"code":-51,"status":""},"errors":{"message":"not found"}}`))
		}
	}))
	defer srv.Close()

	g, err := NewZarinPalGateway(config.ZarinPalConfig{MerchantID: "zp-merchant", CallbackURL: "https://shop.test/cb", Sandbox: true})
	require.NoError(t, err)
	g.baseURL = srv.URL

	intent, err := g.CreatePayment(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "A0000001", intent.PaymentID)
	assert.True(t, strings.HasPrefix(intent.URL, "https://sandbox.zarinpal.com/pg/StartPay/"))

	status, err := g.PaymentStatus(context.Background(), "A0000001")
	require.NoError(t, err)
	assert.Equal(t, "PAID", status.Status)

	_, err = g.PaymentStatus(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrGatewayFault)
}

func TestNewZarinPalGateway_Config(t *testing.T) {
	_, err := NewZarinPalGateway(config.ZarinPalConfig{CallbackURL: "https://shop.test/cb"})
	assert.Error(t, err)

	_, err = NewZarinPalGateway(config.ZarinPalConfig{MerchantID: "zp-merchant", CallbackURL: "http://shop.test/\x7f"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zarinpal: invalid callback url")
}

func TestZarinPalGateway_RefusesFractionalAmount(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"data":{"code":100,"authority":"A0000001"},"errors":[]}`))
	}))
	defer srv.Close()

	g, err := NewZarinPalGateway(config.ZarinPalConfig{MerchantID: "zp-merchant", CallbackURL: "https://shop.test/cb"})
	require.NoError(t, err)
	g.baseURL = srv.URL

	req := testRequest()
	req.Amount = decimal.RequireFromString("999.88")
	_, err = g.CreatePayment(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrGatewayFault)
	assert.Zero(t, calls)
}

func TestStripeGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/checkout/sessions":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "payment", r.PostForm.Get("mode"))
			assert.Equal(t, "270000", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
			assert.Equal(t, "rub", r.PostForm.Get("line_items[0][price_data][currency]"))
			_, _ = w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.test/cs_test_1","status":"open","created":1767261600}`))
		case r.Method == http.MethodGet && r.URL.Path == "/v1/checkout/sessions/cs_test_1":
			_, _ = w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","status":"open","created":1767261600}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"type":"api_error","message":"boom"}}`))
		}
	}))
	defer srv.Close()

	g, err := newStripeGateway(config.StripeConfig{SecretKey: "sk_test_123", SuccessURL: "https://shop.test/ok"}, srv.URL)
	require.NoError(t, err)

	intent, err := g.CreatePayment(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", intent.PaymentID)
	assert.Equal(t, "https://checkout.stripe.test/cs_test_1", intent.URL)

	status, err := g.PaymentStatus(context.Background(), "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, "open", status.Status)
	assert.Equal(t, time.Unix(1767261600, 0).UTC(), status.Created)

	_, err = g.PaymentStatus(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, domain.ErrGatewayFault)
}

func TestRegistry(t *testing.T) {
	noop := NewNoopPaymentGateway()
	reg, err := NewRegistry("noop", noop)
	require.NoError(t, err)

	g, err := reg.Get("")
	require.NoError(t, err)
	assert.Equal(t, "noop", g.Name())

	g, err = reg.Get(" NOOP ")
	require.NoError(t, err)
	assert.Same(t, noop, g)

	_, err = reg.Get("paypal")
	assert.ErrorIs(t, err, domain.ErrUnknownGateway)

	_, err = NewRegistry("stripe", noop)
	assert.ErrorIs(t, err, domain.ErrUnknownGateway)

	_, err = NewRegistry("noop", noop, NewNoopPaymentGateway())
	assert.Error(t, err)
}

func TestRegistryFromConfig(t *testing.T) {
	cfg := config.Config{}
	cfg.Commerce.Gateway = "paymaster"
	cfg.Payment.PayMaster = config.PayMasterConfig{Enabled: true, BaseURL: "https://paymaster.test", MerchantID: "m", APIToken: "t"}
	cfg.Payment.Noop.Enabled = true

	reg, err := NewRegistryFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "paymaster", reg.Default())
	_, err = reg.Get("noop")
	assert.NoError(t, err)
	_, err = reg.Get("stripe")
	assert.ErrorIs(t, err, domain.ErrUnknownGateway)
}

func TestNoopPaymentGateway(t *testing.T) {
	g := NewNoopPaymentGateway()
	intent, err := g.CreatePayment(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "noop-1", intent.PaymentID)

	status, err := g.PaymentStatus(context.Background(), intent.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, "Pending", status.Status)

	_, err = g.PaymentStatus(context.Background(), "noop-99")
	assert.ErrorIs(t, err, domain.ErrGatewayFault)
}

func TestStripeGateway_MinorUnits(t *testing.T) {
	var unitAmount, currency string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, r.ParseForm())
		unitAmount = r.PostForm.Get("line_items[0][price_data][unit_amount]")
		currency = r.PostForm.Get("line_items[0][price_data][currency]")
		_, _ = w.Write([]byte(`{"id":"cs_test_2","object":"checkout.session","url":"https://checkout.stripe.test/cs_test_2","status":"open","created":1767261600}`))
	}))
	defer srv.Close()

	g, err := newStripeGateway(config.StripeConfig{SecretKey: "sk_test_123", SuccessURL: "https://shop.test/ok"}, srv.URL)
	require.NoError(t, err)

	t.Run("zero-decimal currency is sent in whole units", func(t *testing.T) {
		req := testRequest()
		req.Currency = "JPY"
		_, err := g.CreatePayment(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "2700", unitAmount)
		assert.Equal(t, "jpy", currency)
	})

	t.Run("two-decimal currency is sent in cents", func(t *testing.T) {
		req := testRequest()
		req.Currency = "USD"
		req.Amount = decimal.RequireFromString("999.88")
		_, err := g.CreatePayment(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "99988", unitAmount)
	})

	t.Run("amount finer than the currency is refused", func(t *testing.T) {
		unitAmount = ""
		req := testRequest()
		req.Currency = "JPY"
		req.Amount = decimal.RequireFromString("999.88")
		_, err := g.CreatePayment(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrGatewayFault)
		assert.Empty(t, unitAmount)
	})
}
