// Package calc holds the invoice arithmetic. Every function is pure and
// keeps full decimal precision; rounding for display is left to Round2.
// Inputs are not clamped: range checks on tax rate and tip belong to the
// caller.
package calc

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicebook/internal/invoice/domain"
)

type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`
}

func ItemTotal(quantity int64, price decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(quantity).Mul(price)
}

// Subtotal sums the stored item totals without recomputing them.
func Subtotal(items []domain.Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Total)
	}
	return sum
}

// TaxAmount is subtotal * taxRate / 100, taxRate being a percentage.
func TaxAmount(subtotal, taxRate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(taxRate).Shift(-2)
}

func GrandTotal(subtotal, taxAmount, tipAmount decimal.Decimal) decimal.Decimal {
	return subtotal.Add(taxAmount).Add(tipAmount)
}

func ComputeTotals(items []domain.Item, taxRate, tipAmount decimal.Decimal) Totals {
	subtotal := Subtotal(items)
	tax := TaxAmount(subtotal, taxRate)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     GrandTotal(subtotal, tax, tipAmount),
	}
}

// Apply brings every derived field of inv in line with its items, tax rate
// and tip. It is the only writer of Item.Total, Subtotal, TaxAmount and
// Total.
func Apply(inv *domain.Invoice) {
	for i := range inv.Items {
		inv.Items[i].Total = ItemTotal(inv.Items[i].Quantity, inv.Items[i].Price)
	}
	totals := ComputeTotals(inv.Items, inv.TaxRate, inv.TipAmount)
	inv.Subtotal = totals.Subtotal
	inv.TaxAmount = totals.TaxAmount
	inv.Total = totals.Total
}

// Round2 rounds half away from zero to two places, the way amounts are
// shown and printed.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
