// Package pricing holds the money arithmetic used by staging, proration and checkout.
//
// All amounts are decimals in major currency units. Rounding happens at the
// currency minor unit (MinorUnitPlaces): discounts round half to even, proration
// credit rounds down. Checkout amounts are then rounded once more to the
// precision the currency is billed in (CurrencyExponent).
package pricing

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"subscription-billing/internal/domain"
)

// MinorUnitPlaces is the number of decimal places of the currency minor unit.
const MinorUnitPlaces int32 = 2

// ProrationDayBasis is the divisor applied per used day: each day is worth 1/100 of the order price.
const ProrationDayBasis = 100

var hundred = decimal.NewFromInt(100)

// ServicePrice returns monthly * months.
func ServicePrice(months int, monthly decimal.Decimal) (decimal.Decimal, error) {
	if months <= 0 {
		return decimal.Zero, errors.Wrapf(domain.ErrInvalidArgument, "months must be positive, got %d", months)
	}
	if monthly.IsNegative() {
		return decimal.Zero, errors.Wrapf(domain.ErrInvalidArgument, "negative monthly price %s", monthly)
	}
	return monthly.Mul(decimal.NewFromInt(int64(months))), nil
}

// ApplyDiscount subtracts percent% of price, rounded half to even at the minor unit.
// A zero percent returns price unchanged; the result never exceeds price and is never negative.
func ApplyDiscount(percent, price decimal.Decimal) decimal.Decimal {
	if !percent.IsPositive() {
		return price
	}
	discount := DiscountAmount(percent, price)
	out := price.Sub(discount)
	if out.GreaterThan(price) {
		return price
	}
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// DiscountAmount is round_half_even(price * percent / 100).
func DiscountAmount(percent, price decimal.Decimal) decimal.Decimal {
	return price.Mul(percent).Div(hundred).RoundBank(MinorUnitPlaces)
}

// ProrationCredit is floor(orderPrice * usedDays / ProrationDayBasis) at the minor unit.
// It may be negative for an inverted window; callers clamp.
func ProrationCredit(orderPrice decimal.Decimal, usedDays int64) decimal.Decimal {
	return orderPrice.
		Mul(decimal.NewFromInt(usedDays)).
		Div(decimal.NewFromInt(ProrationDayBasis)).
		RoundFloor(MinorUnitPlaces)
}

// zeroDecimalCurrencies have no minor unit at the gateways. IRR and IRT are
// charged in whole rials and tomans.
var zeroDecimalCurrencies = map[string]struct{}{
	"BIF": {}, "CLP": {}, "DJF": {}, "GNF": {}, "IRR": {}, "IRT": {}, "JPY": {}, "KMF": {},
	"KRW": {}, "MGA": {}, "PYG": {}, "RWF": {}, "UGX": {}, "VND": {}, "VUV": {}, "XAF": {},
	"XOF": {}, "XPF": {},
}

// CurrencyExponent is the number of minor unit digits charged for an ISO 4217 code.
func CurrencyExponent(currency string) int32 {
	if _, ok := zeroDecimalCurrencies[strings.ToUpper(currency)]; ok {
		return 0
	}
	return MinorUnitPlaces
}

// ChargeAmount rounds price half to even at the currency's charge precision.
// The result is both what the gateway bills and what the order records.
func ChargeAmount(price decimal.Decimal, currency string) decimal.Decimal {
	return price.RoundBank(CurrencyExponent(currency))
}

// MinorUnits converts amount to an integer count of the currency's minor unit.
// Amounts finer than the currency allows are rejected rather than rounded.
func MinorUnits(amount decimal.Decimal, currency string) (int64, error) {
	shifted := amount.Shift(CurrencyExponent(currency))
	if !shifted.IsInteger() {
		return 0, errors.Wrapf(domain.ErrInvalidArgument, "amount %s has more precision than %s allows", amount, strings.ToUpper(currency))
	}
	return shifted.IntPart(), nil
}
