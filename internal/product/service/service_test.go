package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicebook/internal/apperr"
	categoryrepo "github.com/smallbiznis/invoicebook/internal/category/repository"
	"github.com/smallbiznis/invoicebook/internal/clock"
	"github.com/smallbiznis/invoicebook/internal/idgen"
	"github.com/smallbiznis/invoicebook/internal/integrity"
	invoicedomain "github.com/smallbiznis/invoicebook/internal/invoice/domain"
	invoicerepo "github.com/smallbiznis/invoicebook/internal/invoice/repository"
	"github.com/smallbiznis/invoicebook/internal/product/domain"
	productrepo "github.com/smallbiznis/invoicebook/internal/product/repository"
	"github.com/smallbiznis/invoicebook/internal/seed"
	"github.com/smallbiznis/invoicebook/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type fixture struct {
	svc      domain.Service
	invoices invoicedomain.Repository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	st := store.NewMemoryStore()
	products := productrepo.New(st, seed.Products)
	invoices := invoicerepo.New(st, seed.Invoices)
	svc := New(Params{
		Log:        zap.NewNop(),
		Repo:       products,
		Categories: categoryrepo.New(st, seed.Categories),
		Guard:      integrity.New(integrity.Params{Products: products, Invoices: invoices}),
		GenID:      &idgen.Sequence{Prefix: "prod-new"},
		Clock:      clock.NewFakeClock(now),
		Serializer: store.NewLocalSerializer(),
	})
	return fixture{svc: svc, invoices: invoices}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		Name:       "Stapler",
		CategoryID: "cat-2",
		Price:      decimal.RequireFromString("7.25"),
		Unit:       "piece",
	})
	require.NoError(t, err)
	assert.Equal(t, "prod-new-1", created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("7.25")))

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stapler", got.Name)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.CreateRequest
		want error
	}{
		{"blank name", domain.CreateRequest{Name: " ", CategoryID: "cat-1"}, domain.ErrInvalidName},
		{"missing category", domain.CreateRequest{Name: "X"}, domain.ErrInvalidCategory},
		{"unknown category", domain.CreateRequest{Name: "X", CategoryID: "cat-404"}, domain.ErrInvalidCategory},
		{"negative price", domain.CreateRequest{Name: "X", CategoryID: "cat-1", Price: decimal.NewFromInt(-1)}, domain.ErrInvalidPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}

	items, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 4)
}

func TestCreate_ZeroPriceAllowed(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(context.Background(), domain.CreateRequest{Name: "Sample", CategoryID: "cat-1"})
	require.NoError(t, err)
	assert.True(t, created.Price.IsZero())
}

func TestListByCategory(t *testing.T) {
	f := newFixture(t)

	items, err := f.svc.ListByCategory(context.Background(), "cat-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "prod-1", items[0].ID)
	assert.Equal(t, "prod-2", items[1].ID)

	items, err = f.svc.ListByCategory(context.Background(), "cat-404")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	price := decimal.NewFromInt(1100)
	category := "cat-2"
	updated, err := f.svc.Update(ctx, "prod-1", domain.UpdateRequest{Price: &price, CategoryID: &category})
	require.NoError(t, err)
	assert.Equal(t, "Laptop", updated.Name)
	assert.Equal(t, "cat-2", updated.CategoryID)
	assert.True(t, updated.Price.Equal(price))

	unknown := "cat-404"
	_, err = f.svc.Update(ctx, "prod-1", domain.UpdateRequest{CategoryID: &unknown})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	negative := decimal.NewFromInt(-5)
	_, err = f.svc.Update(ctx, "prod-1", domain.UpdateRequest{Price: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = f.svc.Update(ctx, "prod-404", domain.UpdateRequest{Price: &price})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_BlockedByInvoiceItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.Delete(ctx, "prod-3")
	assert.ErrorIs(t, err, domain.ErrInUse)
	assert.ErrorIs(t, err, apperr.ErrInUse)

	_, err = f.svc.Get(ctx, "prod-3")
	require.NoError(t, err)

	require.NoError(t, f.invoices.Delete(ctx, "inv-1"))
	require.NoError(t, f.svc.Delete(ctx, "prod-3"))

	_, err = f.svc.Get(ctx, "prod-3")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_Unreferenced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateRequest{Name: "Desk", CategoryID: "cat-3", Price: decimal.NewFromInt(400)})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, created.ID))

	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID), domain.ErrNotFound)
}
