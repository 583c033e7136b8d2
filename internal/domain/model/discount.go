package model

import "github.com/shopspring/decimal"

// DiscountCategory selects which discount table applies.
type DiscountCategory string

const (
	DiscountCategoryService DiscountCategory = "service"
)

// DiscountRate maps a purchased duration within a category to a percent in [0,100).
type DiscountRate struct {
	Months   int
	Category DiscountCategory
	Percent  decimal.Decimal
}
