package domain

import "github.com/shopspring/decimal"

// Currency is keyed by Code. Rate is the number of units of this currency
// equal to one unit of the base currency, whose rate is 1.
type Currency struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Symbol string          `json:"symbol"`
	Rate   decimal.Decimal `json:"rate"`
}
