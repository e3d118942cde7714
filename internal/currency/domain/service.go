package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicebook/internal/apperr"
)

type Service interface {
	List(ctx context.Context) ([]Currency, error)
	Get(ctx context.Context, code string) (*Currency, error)
	Create(ctx context.Context, req CreateRequest) (*Currency, error)
	UpdateRate(ctx context.Context, code string, rate decimal.Decimal) (*Currency, error)
	Delete(ctx context.Context, code string) error
	Convert(ctx context.Context, req ConvertRequest) (*ConvertResponse, error)
}

// CreateRequest carries no rate: new currencies always start at rate 1.
type CreateRequest struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type ConvertRequest struct {
	Amount decimal.Decimal `json:"amount"`
	From   string          `json:"from"`
	To     string          `json:"to"`
}

type ConvertResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	From      Currency        `json:"from"`
	To        Currency        `json:"to"`
	Converted decimal.Decimal `json:"converted"`
}

var (
	ErrInvalidCode   = apperr.Validation("code", "invalid_code")
	ErrInvalidName   = apperr.Validation("name", "invalid_name")
	ErrInvalidSymbol = apperr.Validation("symbol", "invalid_symbol")
	ErrInvalidRate   = apperr.Validation("rate", "invalid_rate")
	ErrCodeExists    = apperr.Validation("code", "currency_code_exists")
	ErrNotFound      = apperr.NotFound("currency_not_found")
	ErrInUse         = apperr.InUse("currency_in_use")
	ErrLastCurrency  = apperr.LastResource("last_currency")
)
