// Package pricing resolves the unit price actually charged for a fish.
package pricing

import (
	"aquashop/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// EffectivePrice returns the charged unit price. An explicit discount price
// wins; otherwise a positive discount percentage is applied to the original
// price and rounded half-up to cents; otherwise the plain price is used.
// Percentages above 100 are treated as 100.
func EffectivePrice(f models.Fish) decimal.Decimal {
	if f.DiscountPrice.Valid {
		return f.DiscountPrice.Decimal
	}
	if f.Discount.Valid && f.Discount.Decimal.IsPositive() && f.OriginalPrice.Valid {
		pct := decimal.Min(f.Discount.Decimal, hundred)
		factor := decimal.NewFromInt(1).Sub(pct.Div(hundred))
		return roundHalfUp(f.OriginalPrice.Decimal.Mul(factor))
	}
	return f.Price
}

// LineTotal is the effective price times quantity.
func LineTotal(f models.Fish, quantity int) decimal.Decimal {
	return EffectivePrice(f).Mul(decimal.NewFromInt(int64(quantity)))
}

// Savings is how much cheaper the effective price is than the reference
// price (original price when known, else the list price). Never negative.
func Savings(f models.Fish) decimal.Decimal {
	ref := f.Price
	if f.OriginalPrice.Valid {
		ref = f.OriginalPrice.Decimal
	}
	diff := ref.Sub(EffectivePrice(f))
	if diff.IsNegative() {
		return decimal.Zero
	}
	return diff
}

// roundHalfUp rounds to two places with ties going towards +inf.
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Add(decimal.New(5, -3)).RoundFloor(2)
}
