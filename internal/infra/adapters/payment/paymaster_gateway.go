package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"subscription-billing/internal/config"
	"subscription-billing/internal/domain/ports/adapter"
	"subscription-billing/internal/infra/metrics"
)

var _ adapter.PaymentGateway = (*PayMasterGateway)(nil)

const (
	payMasterCreatePath = "/api/v2/invoices"
	payMasterStatusPath = "/api/v2/payments/"
)

// PayMasterGateway drives the PayMaster REST API with a bearer token.
type PayMasterGateway struct {
	baseURL    string
	merchantID string
	token      string
	returnURL  string
	testMode   bool
	client     *http.Client
}

func NewPayMasterGateway(cfg config.PayMasterConfig) (*PayMasterGateway, error) {
	if cfg.MerchantID == "" || cfg.APIToken == "" {
		return nil, errors.New("paymaster: merchant id and api token are required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, errors.Wrap(err, "paymaster: invalid base url")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultGatewayTimeout
	}
	return &PayMasterGateway{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		merchantID: cfg.MerchantID,
		token:      cfg.APIToken,
		returnURL:  cfg.ReturnURL,
		testMode:   cfg.TestMode,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

func (g *PayMasterGateway) Name() string { return "paymaster" }

type payMasterAmount struct {
	Value    json.Number `json:"value"`
	Currency string      `json:"currency"`
}

type payMasterInvoice struct {
	Description string `json:"description"`
	OrderNo     string `json:"orderNo"`
}

type payMasterProtocol struct {
	ReturnURL string `json:"returnUrl,omitempty"`
}

type payMasterCreateRequest struct {
	MerchantID    string            `json:"merchantId"`
	TestMode      bool              `json:"testMode"`
	Invoice       payMasterInvoice  `json:"invoice"`
	Amount        payMasterAmount   `json:"amount"`
	PaymentMethod string            `json:"paymentMethod"`
	Protocol      payMasterProtocol `json:"protocol"`
}

type payMasterCreateResponse struct {
	PaymentID string `json:"paymentId"`
	URL       string `json:"url"`
}

type payMasterStatusResponse struct {
	ID      string `json:"id"`
	Created string `json:"created"`
	Status  string `json:"status"`
}

func (g *PayMasterGateway) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+g.token)
	return h
}

func (g *PayMasterGateway) CreatePayment(ctx context.Context, req adapter.PaymentRequest) (*adapter.PaymentIntent, error) {
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = g.returnURL
	}
	body := payMasterCreateRequest{
		MerchantID: g.merchantID,
		TestMode:   g.testMode,
		Invoice: payMasterInvoice{
			Description: req.Description,
			OrderNo:     req.OrderNo,
		},
		Amount: payMasterAmount{
			Value:    json.Number(req.Amount.StringFixed(2)),
			Currency: req.Currency,
		},
		PaymentMethod: "BankCard",
		Protocol:      payMasterProtocol{ReturnURL: returnURL},
	}

	var out payMasterCreateResponse
	err := doJSON(ctx, g.client, http.MethodPost, g.baseURL+payMasterCreatePath, g.header(), body, &out)
	if err == nil && out.PaymentID == "" {
		err = errors.New("response has no paymentId")
	}
	metrics.IncGatewayCall(g.Name(), "create", err == nil)
	if err != nil {
		return nil, fault(g.Name(), "create-payment", err)
	}
	return &adapter.PaymentIntent{PaymentID: out.PaymentID, URL: out.URL}, nil
}

func (g *PayMasterGateway) PaymentStatus(ctx context.Context, paymentID string) (*adapter.PaymentStatus, error) {
	var out payMasterStatusResponse
	err := doJSON(ctx, g.client, http.MethodGet, g.baseURL+payMasterStatusPath+url.PathEscape(paymentID), g.header(), nil, &out)
	if err == nil && out.Status == "" {
		err = errors.New("response has no status")
	}
	var created time.Time
	if err == nil {
		created, err = parseCreated(out.Created)
	}
	metrics.IncGatewayCall(g.Name(), "status", err == nil)
	if err != nil {
		return nil, fault(g.Name(), "payment-status", err)
	}
	id := out.ID
	if id == "" {
		id = paymentID
	}
	return &adapter.PaymentStatus{PaymentID: id, Status: out.Status, Created: created}, nil
}

// parseCreated accepts RFC 3339 with or without a zone; a zoneless value is taken as UTC.
func parseCreated(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("response has no created timestamp")
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Newf("unparseable created timestamp %q", s)
}
