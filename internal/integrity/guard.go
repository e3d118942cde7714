// Package integrity answers whether an entity is still referenced by another
// one and therefore must not be deleted.
package integrity

import (
	"context"

	invoicedomain "github.com/smallbiznis/invoicebook/internal/invoice/domain"
	productdomain "github.com/smallbiznis/invoicebook/internal/product/domain"
	"go.uber.org/fx"
)

// Guard reads the live product and invoice collections on every call.
type Guard struct {
	products productdomain.Repository
	invoices invoicedomain.Repository
}

type Params struct {
	fx.In

	Products productdomain.Repository
	Invoices invoicedomain.Repository
}

func New(p Params) *Guard {
	return &Guard{products: p.Products, invoices: p.Invoices}
}

// CategoryInUse reports whether any product belongs to categoryID.
func (g *Guard) CategoryInUse(ctx context.Context, categoryID string) (bool, error) {
	products, err := g.products.FindAll(ctx)
	if err != nil {
		return false, err
	}
	return CategoryReferenced(products, categoryID), nil
}

// ProductInUse reports whether any invoice line references productID.
func (g *Guard) ProductInUse(ctx context.Context, productID string) (bool, error) {
	invoices, err := g.invoices.FindAll(ctx)
	if err != nil {
		return false, err
	}
	return ProductReferenced(invoices, productID), nil
}

// CurrencyInUse reports whether any invoice is expressed in code.
func (g *Guard) CurrencyInUse(ctx context.Context, code string) (bool, error) {
	invoices, err := g.invoices.FindAll(ctx)
	if err != nil {
		return false, err
	}
	return CurrencyReferenced(invoices, code), nil
}

func CategoryReferenced(products []productdomain.Product, categoryID string) bool {
	for _, p := range products {
		if p.CategoryID == categoryID {
			return true
		}
	}
	return false
}

func ProductReferenced(invoices []invoicedomain.Invoice, productID string) bool {
	for i := range invoices {
		if invoices[i].HasProduct(productID) {
			return true
		}
	}
	return false
}

func CurrencyReferenced(invoices []invoicedomain.Invoice, code string) bool {
	for _, inv := range invoices {
		if inv.Currency.Code == code {
			return true
		}
	}
	return false
}

var Module = fx.Module("integrity",
	fx.Provide(New),
)
