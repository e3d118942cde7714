package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicebook/internal/apperr"
)

type Service interface {
	List(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, req CreateRequest) (*Product, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  string          `json:"categoryId"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
}

// UpdateRequest lists the mutable fields; nil leaves a field unchanged.
type UpdateRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	CategoryID  *string          `json:"categoryId,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
}

var (
	ErrInvalidID       = apperr.Validation("id", "invalid_id")
	ErrInvalidName     = apperr.Validation("name", "invalid_name")
	ErrInvalidCategory = apperr.Validation("categoryId", "invalid_category")
	ErrInvalidPrice    = apperr.Validation("price", "invalid_price")
	ErrNotFound        = apperr.NotFound("product_not_found")
	ErrInUse           = apperr.InUse("product_in_use")
)
