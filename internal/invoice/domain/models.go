package domain

import (
	"time"

	"github.com/shopspring/decimal"
	currencydomain "github.com/smallbiznis/invoicebook/internal/currency/domain"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusReview   Status = "review"
	StatusApproved Status = "approved"
	StatusCanceled Status = "canceled"
)

// Valid reports whether s is one of the four statuses. Any status may move
// to any other.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReview, StatusApproved, StatusCanceled:
		return true
	default:
		return false
	}
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Item is one invoice line. Total is always Quantity * Price.
type Item struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"categoryId"`
	ProductID   string          `json:"productId"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

// Invoice embeds a copy of its currency taken when the invoice was created
// or last edited; later rate changes do not touch stored amounts.
type Invoice struct {
	ID            string                  `json:"id"`
	InvoiceNumber string                  `json:"invoiceNumber"`
	Date          time.Time               `json:"date"`
	DueDate       time.Time               `json:"dueDate"`
	Customer      Customer                `json:"customer"`
	Items         []Item                  `json:"items"`
	Subtotal      decimal.Decimal         `json:"subtotal"`
	TaxRate       decimal.Decimal         `json:"taxRate"`
	TaxAmount     decimal.Decimal         `json:"taxAmount"`
	TipAmount     decimal.Decimal         `json:"tipAmount"`
	Total         decimal.Decimal         `json:"total"`
	Notes         string                  `json:"notes"`
	Status        Status                  `json:"status"`
	Currency      currencydomain.Currency `json:"currency"`
	CreatedAt     time.Time               `json:"createdAt"`
}

// HasProduct reports whether any line references productID.
func (inv *Invoice) HasProduct(productID string) bool {
	for _, item := range inv.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
