package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"

	"subscription-billing/internal/config"
	"subscription-billing/internal/domain/ports/adapter"
	"subscription-billing/internal/infra/metrics"
)

var _ adapter.PaymentGateway = (*ZarinPalGateway)(nil)

// ZarinPalGateway implements adapter.PaymentGateway using REST v4:
// request.json creates the payment and inquiry.json reports its status.
type ZarinPalGateway struct {
	merchantID string
	callback   string
	sandbox    bool
	baseURL    string // overrides the sandbox/production API base when set
	client     *http.Client
}

func NewZarinPalGateway(cfg config.ZarinPalConfig) (*ZarinPalGateway, error) {
	if cfg.MerchantID == "" {
		return nil, errors.New("zarinpal: merchant id is required")
	}
	if _, err := url.Parse(cfg.CallbackURL); err != nil {
		return nil, errors.Wrap(err, "zarinpal: invalid callback url")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultGatewayTimeout
	}
	return &ZarinPalGateway{
		merchantID: cfg.MerchantID,
		callback:   cfg.CallbackURL,
		sandbox:    cfg.Sandbox,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

func (z *ZarinPalGateway) Name() string { return "zarinpal" }

func (z *ZarinPalGateway) endpoint(path string) string {
	base := "https://api.zarinpal.com/pg/v4"
	if z.sandbox {
		base = "https://sandbox.zarinpal.com/pg/v4"
	}
	if z.baseURL != "" {
		base = z.baseURL
	}
	return base + path
}

func (z *ZarinPalGateway) startPayURL(authority string) string {
	if z.sandbox {
		return fmt.Sprintf("https://sandbox.zarinpal.com/pg/StartPay/%s", authority)
	}
	return fmt.Sprintf("https://www.zarinpal.com/pg/StartPay/%s", authority)
}

// CreatePayment calls /payment/request.json. The API takes whole units only;
// a fractional amount is refused before any call is made.
func (z *ZarinPalGateway) CreatePayment(ctx context.Context, req adapter.PaymentRequest) (*adapter.PaymentIntent, error) {
	if !req.Amount.IsInteger() {
		metrics.IncGatewayCall(z.Name(), "create", false)
		return nil, fault(z.Name(), "request", errors.Newf("amount %s is not a whole unit", req.Amount))
	}
	callbackURL := req.ReturnURL
	if callbackURL == "" {
		callbackURL = z.callback
	}
	payload := map[string]any{
		"merchant_id":  z.merchantID,
		"amount":       req.Amount.IntPart(),
		"description":  req.Description,
		"callback_url": callbackURL,
		"metadata": map[string]string{
			"order_id": req.OrderNo,
		},
	}
	var out struct {
		Data struct {
			Authority string `json:"authority"`
			Code      int    `json:"code"`
		} `json:"data"`
		Errors any `json:"errors"`
	}
	err := doJSON(ctx, z.client, http.MethodPost, z.endpoint("/payment/request.json"), nil, payload, &out)
	if err == nil && (out.Data.Code != 100 || out.Data.Authority == "") {
		err = errors.Newf("zarinpal request failed: code=%d errors=%v", out.Data.Code, out.Errors)
	}
	metrics.IncGatewayCall(z.Name(), "create", err == nil)
	if err != nil {
		return nil, fault(z.Name(), "request", err)
	}
	return &adapter.PaymentIntent{PaymentID: out.Data.Authority, URL: z.startPayURL(out.Data.Authority)}, nil
}

// PaymentStatus calls /payment/inquiry.json for the authority.
func (z *ZarinPalGateway) PaymentStatus(ctx context.Context, authority string) (*adapter.PaymentStatus, error) {
	payload := map[string]any{
		"merchant_id": z.merchantID,
		"authority":   authority,
	}
	var out struct {
		Data struct {
			Code    int    `json:"code"`
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"data"`
		Errors any `json:"errors"`
	}
	err := doJSON(ctx, z.client, http.MethodPost, z.endpoint("/payment/inquiry.json"), nil, payload, &out)
	if err == nil && (out.Data.Code != 100 || out.Data.Status == "") {
		err = errors.Newf("zarinpal inquiry failed: code=%s errors=%v", strconv.Itoa(out.Data.Code), out.Errors)
	}
	metrics.IncGatewayCall(z.Name(), "status", err == nil)
	if err != nil {
		return nil, fault(z.Name(), "inquiry", err)
	}
	// inquiry carries no creation time; the poll time stands in for it.
	return &adapter.PaymentStatus{PaymentID: authority, Status: out.Data.Status, Created: time.Now().UTC()}, nil
}
