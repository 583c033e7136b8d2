package model

import (
	"strings"

	"github.com/shopspring/decimal"

	"subscription-billing/internal/domain"
)

// FareRule is a published, purchasable subscription tier. Price is per month.
type FareRule struct {
	RuleID   int64           `json:"ruleId"`
	PublicID string          `json:"publicId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	PlanType string          `json:"planType"`
}

func (r *FareRule) IsZero() bool { return r == nil || r.RuleID == 0 }

// NewFareRule validates and constructs a fare rule.
func NewFareRule(ruleID int64, publicID, name string, price decimal.Decimal, planType string) (*FareRule, error) {
	if ruleID <= 0 || strings.TrimSpace(publicID) == "" || strings.TrimSpace(name) == "" || price.IsNegative() {
		return nil, domain.ErrInvalidArgument
	}
	return &FareRule{
		RuleID:   ruleID,
		PublicID: publicID,
		Name:     name,
		Price:    price,
		PlanType: planType,
	}, nil
}
