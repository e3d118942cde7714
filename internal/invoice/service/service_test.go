package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicebook/internal/apperr"
	"github.com/smallbiznis/invoicebook/internal/clock"
	"github.com/smallbiznis/invoicebook/internal/config"
	currencydomain "github.com/smallbiznis/invoicebook/internal/currency/domain"
	currencyrepo "github.com/smallbiznis/invoicebook/internal/currency/repository"
	"github.com/smallbiznis/invoicebook/internal/idgen"
	"github.com/smallbiznis/invoicebook/internal/invoice/domain"
	"github.com/smallbiznis/invoicebook/internal/invoice/format"
	invoicerepo "github.com/smallbiznis/invoicebook/internal/invoice/repository"
	productrepo "github.com/smallbiznis/invoicebook/internal/product/repository"
	"github.com/smallbiznis/invoicebook/internal/seed"
	"github.com/smallbiznis/invoicebook/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type fixture struct {
	svc        domain.Service
	currencies currencydomain.Repository
	numbers    *format.NumberGenerator
	clock      *clock.FakeClock
}

func newFixture(t *testing.T, repo domain.Repository) fixture {
	t.Helper()
	st := store.NewMemoryStore()
	if repo == nil {
		repo = invoicerepo.New(st, seed.Invoices)
	}
	fc := clock.NewFakeClock(now)
	numbers := format.NewNumberGenerator(fc)
	numbers.Random = func() int64 { return 7 }
	currencies := currencyrepo.New(st, seed.Currencies)

	cfg := config.DefaultInvoicingConfig()
	cfg.DefaultTaxRate = decimal.NewFromInt(10)

	svc := New(Params{
		Log:        zap.NewNop(),
		Repo:       repo,
		Products:   productrepo.New(st, seed.Products),
		Currencies: currencies,
		GenID:      &idgen.Sequence{Prefix: "id"},
		Clock:      fc,
		Numbers:    numbers,
		Config:     config.NewStaticInvoicingConfigHolder(cfg),
		Serializer: store.NewLocalSerializer(),
	})
	return fixture{svc: svc, currencies: currencies, numbers: numbers, clock: fc}
}

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func draft() domain.CreateRequest {
	return domain.CreateRequest{
		Customer: domain.Customer{Name: "Globex", Email: "ap@globex.test"},
		Items: []domain.ItemInput{
			{CategoryID: "cat-1", ProductID: "prod-1", Quantity: 2, Price: price("1200")},
			{CategoryID: "cat-2", ProductID: "prod-3", Quantity: 5, Price: price("15")},
		},
		TaxRate:      price("8.5"),
		CurrencyCode: "EUR",
	}
}

func TestCreate_ComputesTotalsAndSnapshot(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, draft())
	require.NoError(t, err)

	assert.Equal(t, "id-1", inv.ID)
	assert.Regexp(t, `^INV-\d{6}-007$`, inv.InvoiceNumber)
	assert.Equal(t, domain.StatusPending, inv.Status)
	assert.Equal(t, now, inv.CreatedAt)
	assert.Equal(t, now, inv.Date)
	assert.Equal(t, now.AddDate(0, 0, 15), inv.DueDate)

	assert.Equal(t, "2475", inv.Subtotal.String())
	assert.Equal(t, "210.375", inv.TaxAmount.String())
	assert.Equal(t, "2685.375", inv.Total.String())
	assert.Equal(t, "2400", inv.Items[0].Total.String())

	assert.Equal(t, "EUR", inv.Currency.Code)
	assert.Equal(t, "0.92", inv.Currency.Rate.String())
}

func TestCreate_ItemDefaultsFromProduct(t *testing.T) {
	f := newFixture(t, nil)

	req := draft()
	req.TaxRate = nil
	req.Items = []domain.ItemInput{{CategoryID: "cat-3", ProductID: "prod-4", Quantity: 3}}

	inv, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)

	item := inv.Items[0]
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Office Chair", item.Description)
	assert.Equal(t, "piece", item.Unit)
	assert.Equal(t, "250", item.Price.String())
	assert.Equal(t, "750", item.Total.String())

	// configured default tax rate of 10%
	assert.Equal(t, "75", inv.TaxAmount.String())
	assert.Equal(t, "825", inv.Total.String())
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*domain.CreateRequest)
		want   error
	}{
		{"blank customer", func(r *domain.CreateRequest) { r.Customer.Name = " " }, domain.ErrInvalidCustomerName},
		{"no items", func(r *domain.CreateRequest) { r.Items = nil }, domain.ErrNoItems},
		{"item without category", func(r *domain.CreateRequest) { r.Items[0].CategoryID = "" }, domain.ErrInvalidItemCategory},
		{"item without product", func(r *domain.CreateRequest) { r.Items[0].ProductID = "" }, domain.ErrInvalidItemProduct},
		{"unknown product", func(r *domain.CreateRequest) { r.Items[0].ProductID = "prod-404" }, domain.ErrInvalidItemProduct},
		{"category not the product's", func(r *domain.CreateRequest) { r.Items[0].CategoryID = "cat-2" }, domain.ErrInvalidItemCategory},
		{"duplicate item ids", func(r *domain.CreateRequest) {
			r.Items[0].ID = "dup"
			r.Items[1].ID = "dup"
		}, domain.ErrDuplicateItemID},
		{"zero quantity", func(r *domain.CreateRequest) { r.Items[1].Quantity = 0 }, domain.ErrInvalidQuantity},
		{"negative price", func(r *domain.CreateRequest) { r.Items[0].Price = price("-1") }, domain.ErrInvalidPrice},
		{"tax above 100", func(r *domain.CreateRequest) { r.TaxRate = price("100.01") }, domain.ErrInvalidTaxRate},
		{"negative tax", func(r *domain.CreateRequest) { r.TaxRate = price("-0.5") }, domain.ErrInvalidTaxRate},
		{"negative tip", func(r *domain.CreateRequest) { r.TipAmount = decimal.NewFromInt(-1) }, domain.ErrInvalidTipAmount},
		{"unknown status", func(r *domain.CreateRequest) { r.Status = "paid" }, domain.ErrInvalidStatus},
		{"missing currency", func(r *domain.CreateRequest) { r.CurrencyCode = "" }, domain.ErrInvalidCurrency},
		{"unknown currency", func(r *domain.CreateRequest) { r.CurrencyCode = "XXX" }, domain.ErrInvalidCurrency},
		{"due before date", func(r *domain.CreateRequest) {
			before := now.AddDate(0, 0, -1)
			r.DueDate = &before
		}, domain.ErrInvalidDueDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := draft()
			tt.mutate(&req)
			_, err := f.svc.Create(ctx, req)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}

	items, err := f.svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCreate_TaxRateBoundsAccepted(t *testing.T) {
	f := newFixture(t, nil)
	f.numbers.Random = sequence(1)

	for _, rate := range []string{"0", "100"} {
		req := draft()
		req.TaxRate = price(rate)
		_, err := f.svc.Create(context.Background(), req)
		assert.NoError(t, err, rate)
	}
}

func sequence(start int64) func() int64 {
	n := start - 1
	return func() int64 {
		n++
		return n
	}
}

func TestCreate_RetriesNumberCollision(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, draft())
	require.NoError(t, err)

	calls := 0
	f.numbers.Random = func() int64 {
		calls++
		if calls == 1 {
			return 7
		}
		return 8
	}
	second, err := f.svc.Create(ctx, draft())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.NotEqual(t, first.InvoiceNumber, second.InvoiceNumber)
}

func TestCreate_NumberExhausted(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, draft())
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, draft())
	assert.ErrorIs(t, err, domain.ErrNumberExhausted)
	assert.Empty(t, apperr.KindOf(err))
}

func TestCreate_SnapshotSurvivesRateChange(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, draft())
	require.NoError(t, err)

	eur, err := f.currencies.FindByCode(ctx, "EUR")
	require.NoError(t, err)
	eur.Rate = decimal.RequireFromString("0.5")
	require.NoError(t, f.currencies.Update(ctx, eur))

	got, err := f.svc.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.92", got.Currency.Rate.String())
	assert.Equal(t, inv.Total.String(), got.Total.String())
}

func TestUpdate_RecomputesTotals(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tip := decimal.NewFromInt(25)
	updated, err := f.svc.Update(ctx, "inv-1", domain.UpdateRequest{TipAmount: &tip})
	require.NoError(t, err)
	assert.Equal(t, "2710.375", updated.Total.String())
	assert.Equal(t, "INV-123456-001", updated.InvoiceNumber)

	items := []domain.ItemInput{{ID: "item-1", CategoryID: "cat-1", ProductID: "prod-1", Quantity: 1, Price: price("1000")}}
	updated, err = f.svc.Update(ctx, "inv-1", domain.UpdateRequest{Items: items, TaxRate: price("0")})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "item-1", updated.Items[0].ID)
	assert.Equal(t, "1000", updated.Subtotal.String())
	assert.True(t, updated.TaxAmount.IsZero())
	assert.Equal(t, "1025", updated.Total.String())

	stored, err := f.svc.Get(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, updated.Total.String(), stored.Total.String())
}

func TestUpdate_CurrencyReplacesSnapshot(t *testing.T) {
	f := newFixture(t, nil)

	code := "GBP"
	updated, err := f.svc.Update(context.Background(), "inv-2", domain.UpdateRequest{CurrencyCode: &code})
	require.NoError(t, err)
	assert.Equal(t, "GBP", updated.Currency.Code)
	assert.Equal(t, "1731.75", updated.Total.String())
}

func TestUpdate_Errors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Update(ctx, "inv-1", domain.UpdateRequest{Items: []domain.ItemInput{}})
	assert.ErrorIs(t, err, domain.ErrNoItems)

	_, err = f.svc.Update(ctx, "inv-1", domain.UpdateRequest{TaxRate: price("150")})
	assert.ErrorIs(t, err, domain.ErrInvalidTaxRate)

	blank := domain.Customer{Name: ""}
	_, err = f.svc.Update(ctx, "inv-1", domain.UpdateRequest{Customer: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomerName)

	dup := []domain.ItemInput{
		{ID: "item-1", CategoryID: "cat-1", ProductID: "prod-1", Quantity: 1},
		{ID: "item-1", CategoryID: "cat-2", ProductID: "prod-3", Quantity: 1},
	}
	_, err = f.svc.Update(ctx, "inv-1", domain.UpdateRequest{Items: dup})
	assert.ErrorIs(t, err, domain.ErrDuplicateItemID)

	_, err = f.svc.Update(ctx, "inv-404", domain.UpdateRequest{Notes: new(string)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, err := f.svc.Get(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "8.5", stored.TaxRate.String())
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	updated, err := f.svc.SetStatus(ctx, "inv-1", domain.StatusCanceled)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCanceled, updated.Status)

	updated, err = f.svc.SetStatus(ctx, "inv-1", domain.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, updated.Status)

	_, err = f.svc.SetStatus(ctx, "inv-1", "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.svc.SetStatus(ctx, "inv-404", domain.StatusReview)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.svc.Delete(ctx, "inv-2"))
	_, err := f.svc.Get(ctx, "inv-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, f.svc.Delete(ctx, "inv-2"), domain.ErrNotFound)
}

func TestList_Filters(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	items, err := f.svc.List(ctx, domain.ListRequest{Search: "acme"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "inv-1", items[0].ID)

	items, err = f.svc.List(ctx, domain.ListRequest{Search: "123457"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "inv-2", items[0].ID)

	items, err = f.svc.List(ctx, domain.ListRequest{Status: domain.StatusPending})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "inv-2", items[0].ID)

	items, err = f.svc.List(ctx, domain.ListRequest{Search: "acme", Status: domain.StatusPending})
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = f.svc.List(ctx, domain.ListRequest{Status: "draft"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestSummary(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.SetStatus(ctx, "inv-2", domain.StatusApproved)
	require.NoError(t, err)
	created, err := f.svc.Create(ctx, draft())
	require.NoError(t, err)
	_, err = f.svc.SetStatus(ctx, created.ID, domain.StatusApproved)
	require.NoError(t, err)

	summary, err := f.svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.InvoiceCount)
	assert.Equal(t, 0, summary.PendingCount)
	assert.Equal(t, "4417.125", summary.ApprovedRevenue["USD"].String())
	assert.Equal(t, "2685.375", summary.ApprovedRevenue["EUR"].String())

	eurInBase := decimal.RequireFromString("2685.375").Div(decimal.RequireFromString("0.92"))
	assert.True(t, summary.ApprovedRevenueBase.Equal(decimal.RequireFromString("4417.125").Add(eurInBase)))
}

func TestQuote_DoesNotPersist(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	quote, err := f.svc.Quote(ctx, domain.QuoteRequest{
		Items: []domain.ItemInput{
			{CategoryID: "cat-1", ProductID: "prod-2", Quantity: 3},
			{CategoryID: "cat-3", ProductID: "prod-4", Quantity: 2},
		},
		TaxRate:   decimal.RequireFromString("8.5"),
		TipAmount: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.Equal(t, "1550", quote.Subtotal.String())
	assert.Equal(t, "131.75", quote.TaxAmount.String())
	assert.Equal(t, "1731.75", quote.Total.String())
	assert.Empty(t, quote.Items[0].ID)

	items, err := f.svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = f.svc.Quote(ctx, domain.QuoteRequest{TaxRate: decimal.NewFromInt(101)})
	assert.ErrorIs(t, err, domain.ErrInvalidTaxRate)
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) FindAll(ctx context.Context) ([]domain.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *mockRepository) FindByID(ctx context.Context, id string) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *mockRepository) Insert(ctx context.Context, invoice *domain.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *mockRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestCreate_StoreFailureIsPropagated(t *testing.T) {
	repo := &mockRepository{}
	saveErr := errors.New("save invoices: disk full")
	repo.On("FindAll", mock.Anything).Return([]domain.Invoice{}, nil)
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(saveErr)

	f := newFixture(t, repo)
	_, err := f.svc.Create(context.Background(), draft())
	assert.ErrorIs(t, err, saveErr)
	assert.Empty(t, apperr.KindOf(err))
	repo.AssertExpectations(t)
}

func TestSetStatus_LoadFailureIsPropagated(t *testing.T) {
	repo := &mockRepository{}
	loadErr := errors.New("decode invoices: unexpected end of JSON input")
	repo.On("FindByID", mock.Anything, "inv-1").Return(nil, loadErr)

	f := newFixture(t, repo)
	_, err := f.svc.SetStatus(context.Background(), "inv-1", domain.StatusApproved)
	assert.ErrorIs(t, err, loadErr)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
