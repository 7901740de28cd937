package cart

import (
	"math"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"
)

// DefaultTaxRate is the sales tax applied when none is configured.
const DefaultTaxRate = 0.08875

// Round2 rounds to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Subtotal sums price times quantity over all lines, unrounded.
func Subtotal(c models.Cart) float64 {
	var subtotal float64
	for _, line := range c {
		subtotal += line.Price * float64(line.Qty)
	}
	return subtotal
}

// CalculateTax computes tax based on subtotal and configured tax rate.
func CalculateTax(subtotal float64, taxRate float64) float64 {
	return Round2(subtotal * taxRate)
}

// CalculateTotals derives the pricing breakdown of a cart. Tax is rounded, then the total is
// rounded again after adding the rounded tax to the unrounded subtotal.
func CalculateTotals(c models.Cart, taxRate float64) models.Totals {
	subtotal := Subtotal(c)
	tax := CalculateTax(subtotal, taxRate)
	return models.Totals{
		Subtotal: Round2(subtotal),
		Tax:      tax,
		Total:    Round2(subtotal + tax),
	}
}
