package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicebook/internal/apperr"
)

type Service interface {
	List(ctx context.Context, req ListRequest) ([]Invoice, error)
	Get(ctx context.Context, id string) (*Invoice, error)
	Create(ctx context.Context, req CreateRequest) (*Invoice, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Invoice, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status Status) (*Invoice, error)
	Summary(ctx context.Context) (*Summary, error)
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
}

// ItemInput describes one line. When ProductID is set and Description, Unit
// or Price are left empty they are taken from the product.
type ItemInput struct {
	ID          string           `json:"id,omitempty"`
	CategoryID  string           `json:"categoryId"`
	ProductID   string           `json:"productId"`
	Description string           `json:"description"`
	Quantity    int64            `json:"quantity"`
	Unit        string           `json:"unit"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

type CreateRequest struct {
	Date         *time.Time       `json:"date,omitempty"`
	DueDate      *time.Time       `json:"dueDate,omitempty"`
	Customer     Customer         `json:"customer"`
	Items        []ItemInput      `json:"items"`
	TaxRate      *decimal.Decimal `json:"taxRate,omitempty"`
	TipAmount    decimal.Decimal  `json:"tipAmount"`
	Notes        string           `json:"notes"`
	Status       Status           `json:"status"`
	CurrencyCode string           `json:"currencyCode"`
}

// UpdateRequest lists the mutable fields; nil leaves a field unchanged.
// A non-nil Items replaces every line.
type UpdateRequest struct {
	Date         *time.Time       `json:"date,omitempty"`
	DueDate      *time.Time       `json:"dueDate,omitempty"`
	Customer     *Customer        `json:"customer,omitempty"`
	Items        []ItemInput      `json:"items,omitempty"`
	TaxRate      *decimal.Decimal `json:"taxRate,omitempty"`
	TipAmount    *decimal.Decimal `json:"tipAmount,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
	Status       *Status          `json:"status,omitempty"`
	CurrencyCode *string          `json:"currencyCode,omitempty"`
}

// ListRequest filters by a case-insensitive search over invoice number and
// customer name, and by status.
type ListRequest struct {
	Search string
	Status Status
}

type Summary struct {
	InvoiceCount        int                        `json:"invoiceCount"`
	PendingCount        int                        `json:"pendingCount"`
	ApprovedRevenue     map[string]decimal.Decimal `json:"approvedRevenue"`
	ApprovedRevenueBase decimal.Decimal            `json:"approvedRevenueBase"`
}

type QuoteRequest struct {
	Items     []ItemInput     `json:"items"`
	TaxRate   decimal.Decimal `json:"taxRate"`
	TipAmount decimal.Decimal `json:"tipAmount"`
}

type Quote struct {
	Items     []Item          `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`
}

var (
	ErrInvalidID           = apperr.Validation("id", "invalid_id")
	ErrInvalidCustomerName = apperr.Validation("customer.name", "invalid_customer_name")
	ErrNoItems             = apperr.Validation("items", "items_required")
	ErrInvalidItemCategory = apperr.Validation("items.categoryId", "invalid_item_category")
	ErrInvalidItemProduct  = apperr.Validation("items.productId", "invalid_item_product")
	ErrDuplicateItemID     = apperr.Validation("items.id", "duplicate_item_id")
	ErrInvalidQuantity     = apperr.Validation("items.quantity", "invalid_quantity")
	ErrInvalidPrice        = apperr.Validation("items.price", "invalid_price")
	ErrInvalidTaxRate      = apperr.Validation("taxRate", "invalid_tax_rate")
	ErrInvalidTipAmount    = apperr.Validation("tipAmount", "invalid_tip_amount")
	ErrInvalidStatus       = apperr.Validation("status", "invalid_status")
	ErrInvalidCurrency     = apperr.Validation("currencyCode", "invalid_currency")
	ErrInvalidDueDate      = apperr.Validation("dueDate", "invalid_due_date")
	ErrNotFound            = apperr.NotFound("invoice_not_found")

	ErrNumberExhausted = errors.New("could not generate a unique invoice number")
)
