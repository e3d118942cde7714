// Package seed holds the bootstrap dataset written to an empty entity store.
package seed

import (
	"time"

	"github.com/shopspring/decimal"
	categorydomain "github.com/smallbiznis/invoicebook/internal/category/domain"
	currencydomain "github.com/smallbiznis/invoicebook/internal/currency/domain"
	"github.com/smallbiznis/invoicebook/internal/invoice/calc"
	invoicedomain "github.com/smallbiznis/invoicebook/internal/invoice/domain"
	productdomain "github.com/smallbiznis/invoicebook/internal/product/domain"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func Categories() []categorydomain.Category {
	return []categorydomain.Category{
		{ID: "cat-1", Name: "Electronics", Description: "Electronic devices and accessories", CreatedAt: day(2023, time.January, 15)},
		{ID: "cat-2", Name: "Office Supplies", Description: "Office stationery and supplies", CreatedAt: day(2023, time.February, 5)},
		{ID: "cat-3", Name: "Furniture", Description: "Office and home furniture", CreatedAt: day(2023, time.March, 20)},
	}
}

func Products() []productdomain.Product {
	return []productdomain.Product{
		{ID: "prod-1", Name: "Laptop", Description: "High-performance laptop", CategoryID: "cat-1", Price: decimal.NewFromInt(1200), Unit: "piece", CreatedAt: day(2023, time.January, 20)},
		{ID: "prod-2", Name: "Monitor", Description: "27-inch 4K monitor", CategoryID: "cat-1", Price: decimal.NewFromInt(350), Unit: "piece", CreatedAt: day(2023, time.February, 10)},
		{ID: "prod-3", Name: "Printer Paper", Description: "A4 premium printer paper", CategoryID: "cat-2", Price: decimal.NewFromInt(15), Unit: "ream", CreatedAt: day(2023, time.March, 5)},
		{ID: "prod-4", Name: "Office Chair", Description: "Ergonomic office chair", CategoryID: "cat-3", Price: decimal.NewFromInt(250), Unit: "piece", CreatedAt: day(2023, time.April, 15)},
	}
}

func Currencies() []currencydomain.Currency {
	return []currencydomain.Currency{
		{Code: "USD", Name: "US Dollar", Symbol: "$", Rate: decimal.NewFromInt(1)},
		{Code: "EUR", Name: "Euro", Symbol: "€", Rate: decimal.RequireFromString("0.92")},
		{Code: "GBP", Name: "British Pound", Symbol: "£", Rate: decimal.RequireFromString("0.78")},
		{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", Rate: decimal.RequireFromString("150.2")},
	}
}

// Invoices returns two invoices in USD. Totals are computed, so the first
// one carries a tax amount of 210.375.
func Invoices() []invoicedomain.Invoice {
	usd := Currencies()[0]
	taxRate := decimal.RequireFromString("8.5")

	invoices := []invoicedomain.Invoice{
		{
			ID:            "inv-1",
			InvoiceNumber: "INV-123456-001",
			Date:          day(2023, time.April, 1),
			DueDate:       day(2023, time.April, 15),
			Customer: invoicedomain.Customer{
				Name:    "Acme Corporation",
				Email:   "billing@acme.com",
				Address: "123 Main St, Anytown, CA 12345",
				Phone:   "+1 (555) 123-4567",
			},
			Items: []invoicedomain.Item{
				{ID: "item-1", CategoryID: "cat-1", ProductID: "prod-1", Description: "Laptop", Quantity: 2, Unit: "piece", Price: decimal.NewFromInt(1200)},
				{ID: "item-2", CategoryID: "cat-2", ProductID: "prod-3", Description: "Printer Paper", Quantity: 5, Unit: "ream", Price: decimal.NewFromInt(15)},
			},
			TaxRate:   taxRate,
			TipAmount: decimal.Zero,
			Notes:     "Net 15 payment terms",
			Status:    invoicedomain.StatusApproved,
			Currency:  usd,
			CreatedAt: day(2023, time.April, 1),
		},
		{
			ID:            "inv-2",
			InvoiceNumber: "INV-123457-002",
			Date:          day(2023, time.April, 15),
			DueDate:       day(2023, time.April, 30),
			Customer: invoicedomain.Customer{
				Name:    "TechStart Inc",
				Email:   "accounts@techstart.io",
				Address: "456 Tech Blvd, San Francisco, CA 94107",
				Phone:   "+1 (555) 987-6543",
			},
			Items: []invoicedomain.Item{
				{ID: "item-3", CategoryID: "cat-1", ProductID: "prod-2", Description: "Monitor", Quantity: 3, Unit: "piece", Price: decimal.NewFromInt(350)},
				{ID: "item-4", CategoryID: "cat-3", ProductID: "prod-4", Description: "Office Chair", Quantity: 2, Unit: "piece", Price: decimal.NewFromInt(250)},
			},
			TaxRate:   taxRate,
			TipAmount: decimal.NewFromInt(50),
			Notes:     "Please include invoice number in payment reference",
			Status:    invoicedomain.StatusPending,
			Currency:  usd,
			CreatedAt: day(2023, time.April, 15),
		},
	}

	for i := range invoices {
		calc.Apply(&invoices[i])
	}
	return invoices
}
