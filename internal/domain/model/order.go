package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusSucceeded OrderStatus = "Succeeded"
	OrderStatusFailed    OrderStatus = "Failed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// OrderRecord is the durable record of an order accepted by a payment gateway.
// It is created once per confirmed gateway payment; only status fields change afterwards.
type OrderRecord struct {
	OrderID       string
	PaymentID     string          // gateway payment identifier
	Gateway       string          // processor name, e.g. "paymaster"
	UserID        string
	FareRuleID    int64
	Months        int
	RuleName      string
	Description   string
	Amount        decimal.Decimal // in major currency units
	Quantity      int
	Currency      string
	CreatedAt     time.Time // gateway-reported creation time
	GatewayStatus string    // raw status as reported by the gateway
	Status        OrderStatus
}

// OrderDetails is the subset of an order needed for proration.
type OrderDetails struct {
	OrderID string
	Price   decimal.Decimal
}

// CreatedOrder is returned to the checkout caller.
type CreatedOrder struct {
	OrderID     string `json:"orderId"`
	RedirectURL string `json:"url"`
}
