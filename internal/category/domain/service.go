package domain

import (
	"context"

	"github.com/smallbiznis/invoicebook/internal/apperr"
)

type Service interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id string) (*Category, error)
	Create(ctx context.Context, req CreateRequest) (*Category, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Category, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateRequest lists the mutable fields; nil leaves a field unchanged.
type UpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

var (
	ErrInvalidID   = apperr.Validation("id", "invalid_id")
	ErrInvalidName = apperr.Validation("name", "invalid_name")
	ErrNotFound    = apperr.NotFound("category_not_found")
	ErrInUse       = apperr.InUse("category_in_use")
)
