// Package rate converts amounts between currencies expressed against a
// common base (the base currency has rate 1).
package rate

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicebook/internal/currency/domain"
)

// Convert re-expresses amount, given in from, in to:
// amount / from.Rate * to.Rate. The multiplication runs first so that exact
// results (identity conversions, round trips through the base) stay exact;
// only a non-terminating quotient is cut at decimal.DivisionPrecision.
func Convert(amount decimal.Decimal, from, to domain.Currency) (decimal.Decimal, error) {
	if !from.Rate.IsPositive() || !to.Rate.IsPositive() {
		return decimal.Zero, domain.ErrInvalidRate
	}
	return amount.Mul(to.Rate).Div(from.Rate), nil
}

// ToBase re-expresses amount, given in from, in base currency units.
func ToBase(amount decimal.Decimal, from domain.Currency) (decimal.Decimal, error) {
	if !from.Rate.IsPositive() {
		return decimal.Zero, domain.ErrInvalidRate
	}
	return amount.Div(from.Rate), nil
}
