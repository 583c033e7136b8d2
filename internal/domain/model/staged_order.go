package model

import "github.com/shopspring/decimal"

// StagedOrder is an unconfirmed pricing decision kept in the order cache until checkout.
// It carries no monetary authority.
type StagedOrder struct {
	RuleID          int64           `json:"ruleId"`
	Months          int             `json:"months"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	Price           decimal.Decimal `json:"price"`
	UserID          string          `json:"userId"`
	ProductLabels   []string        `json:"productLabels"`
	FareRuleName    string          `json:"fareRuleName"`
}

// FreePriceResult is the outcome of a tier change check with proration credit applied.
type FreePriceResult struct {
	FreePrice decimal.Decimal `json:"freePrice"`
	Price     decimal.Decimal `json:"price"`
}
