package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/invoicebook/internal/config"
	"github.com/smallbiznis/invoicebook/internal/invoice/domain"
	"github.com/smallbiznis/invoicebook/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLStore(t *testing.T) store.Store {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "invoices.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	st, err := store.NewSQLStore(conn)
	require.NoError(t, err)
	return st
}

func TestProvide_BootstrapSeedsInvoices(t *testing.T) {
	repo := Provide(Params{
		Cfg:   config.Config{Store: config.StoreConfig{Bootstrap: true}},
		Store: newSQLStore(t),
	})

	items, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	inv := items[0]
	assert.Equal(t, "210.375", inv.TaxAmount.String())
	assert.Equal(t, "8.5", inv.TaxRate.String())
	assert.Equal(t, "USD", inv.Currency.Code)
	assert.Equal(t, domain.StatusApproved, inv.Status)
	assert.Equal(t, 2023, inv.Date.Year())
}

func TestProvide_WithoutBootstrapStartsEmpty(t *testing.T) {
	repo := Provide(Params{Store: store.NewMemoryStore()})

	items, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRepository_CRUD(t *testing.T) {
	repo := New(newSQLStore(t), nil)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &domain.Invoice{ID: "a", InvoiceNumber: "INV-1"}))
	require.NoError(t, repo.Insert(ctx, &domain.Invoice{ID: "b", InvoiceNumber: "INV-2"}))

	got, err := repo.FindByID(ctx, "b")
	require.NoError(t, err)
	require.NotNil(t, got)
	got.Notes = "updated"
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.FindByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Notes)

	missing, err := repo.FindByID(ctx, "z")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.ErrorIs(t, repo.Update(ctx, &domain.Invoice{ID: "z"}), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "z"), domain.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "a"))
	items, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
}
