package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/raghudevopsb84/roboshop-cart/internal/domain"
)

// All money amounts are carried as float64 on the wire but arithmetic is
// done in decimal so that rounding to 2 places is exact.

var taxRate = decimal.NewFromFloat(0.20)

// Subtotal is price * qty rounded to 2 decimal places.
func Subtotal(price float64, qty int) float64 {
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(int64(qty))).
		Round(2).
		InexactFloat64()
}

// Total sums the subtotals of all line items. An empty cart totals 0.
func Total(items []domain.LineItem) float64 {
	sum := decimal.Zero
	for i := range items {
		sum = sum.Add(decimal.NewFromFloat(items[i].Subtotal))
	}
	return sum.Round(2).InexactFloat64()
}

// Tax is total * 20%, rounded to 2 decimal places.
func Tax(total float64) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromFloat(total).Mul(taxRate).Round(2).InexactFloat64()
}
