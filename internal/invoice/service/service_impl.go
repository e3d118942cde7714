package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicebook/internal/clock"
	"github.com/smallbiznis/invoicebook/internal/config"
	currencydomain "github.com/smallbiznis/invoicebook/internal/currency/domain"
	"github.com/smallbiznis/invoicebook/internal/currency/rate"
	"github.com/smallbiznis/invoicebook/internal/idgen"
	"github.com/smallbiznis/invoicebook/internal/invoice/calc"
	"github.com/smallbiznis/invoicebook/internal/invoice/domain"
	"github.com/smallbiznis/invoicebook/internal/invoice/format"
	"github.com/smallbiznis/invoicebook/internal/observability/metrics"
	productdomain "github.com/smallbiznis/invoicebook/internal/product/domain"
	"github.com/smallbiznis/invoicebook/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

type Params struct {
	fx.In

	Log        *zap.Logger
	Repo       domain.Repository
	Products   productdomain.Repository
	Currencies currencydomain.Repository
	GenID      idgen.Generator
	Clock      clock.Clock
	Numbers    *format.NumberGenerator
	Config     *config.InvoicingConfigHolder
	Serializer store.Serializer
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	repo       domain.Repository
	products   productdomain.Repository
	currencies currencydomain.Repository
	genID      idgen.Generator
	clock      clock.Clock
	numbers    *format.NumberGenerator
	cfg        *config.InvoicingConfigHolder
	serializer store.Serializer
	metrics    *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("invoice.service"),
		repo:       p.Repo,
		products:   p.Products,
		currencies: p.Currencies,
		genID:      p.GenID,
		clock:      p.Clock,
		numbers:    p.Numbers,
		cfg:        p.Config,
		serializer: p.Serializer,
		metrics:    p.Metrics,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Invoice, error) {
	if req.Status != "" && !req.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	search := strings.ToLower(strings.TrimSpace(req.Search))

	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if req.Status != "" && item.Status != req.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(item.InvoiceNumber), search) &&
			!strings.Contains(strings.ToLower(item.Customer.Name), search) {
			continue
		}
		resp = append(resp, item)
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Invoice, error) {
	cfg := s.cfg.Get()

	customer, err := normalizeCustomer(req.Customer)
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, domain.ErrNoItems
	}

	taxRate := cfg.DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	if err := validateCharges(taxRate, req.TipAmount); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.StatusPending
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	now := s.clock.Now()
	date := now
	if req.Date != nil {
		date = req.Date.UTC()
	}
	dueDate := date.AddDate(0, 0, cfg.DefaultDueDays)
	if req.DueDate != nil {
		dueDate = req.DueDate.UTC()
	}
	if dueDate.Before(date) {
		return nil, domain.ErrInvalidDueDate
	}

	var created *domain.Invoice
	err = s.serializer.Do(ctx, func(ctx context.Context) error {
		currency, err := s.currencySnapshot(ctx, req.CurrencyCode)
		if err != nil {
			return err
		}
		items, err := s.buildItems(ctx, req.Items, true)
		if err != nil {
			return err
		}
		number, err := s.nextNumber(ctx, cfg)
		if err != nil {
			return err
		}

		inv := &domain.Invoice{
			ID:            s.genID.NewID(),
			InvoiceNumber: number,
			Date:          date,
			DueDate:       dueDate,
			Customer:      customer,
			Items:         items,
			TaxRate:       taxRate,
			TipAmount:     req.TipAmount,
			Notes:         strings.TrimSpace(req.Notes),
			Status:        status,
			Currency:      currency,
			CreatedAt:     now,
		}
		calc.Apply(inv)

		if err := s.repo.Insert(ctx, inv); err != nil {
			return err
		}
		created = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Mutation("invoice", "create")
	s.log.Info("invoice created",
		zap.String("invoice_id", created.ID),
		zap.String("invoice_number", created.InvoiceNumber),
		zap.String("currency", created.Currency.Code),
		zap.String("total", created.Total.String()),
	)
	return created, nil
}

// Update applies the non-nil fields of req and recomputes every total.
// A new currency code replaces the snapshot; amounts are not converted.
func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Invoice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}

	var customer domain.Customer
	if req.Customer != nil {
		var err error
		if customer, err = normalizeCustomer(*req.Customer); err != nil {
			return nil, err
		}
	}
	if req.Items != nil && len(req.Items) == 0 {
		return nil, domain.ErrNoItems
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	var updated *domain.Invoice
	err := s.serializer.Do(ctx, func(ctx context.Context) error {
		inv, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}

		if req.Date != nil {
			inv.Date = req.Date.UTC()
		}
		if req.DueDate != nil {
			inv.DueDate = req.DueDate.UTC()
		}
		if inv.DueDate.Before(inv.Date) {
			return domain.ErrInvalidDueDate
		}
		if req.Customer != nil {
			inv.Customer = customer
		}
		if req.TaxRate != nil {
			inv.TaxRate = *req.TaxRate
		}
		if req.TipAmount != nil {
			inv.TipAmount = *req.TipAmount
		}
		if err := validateCharges(inv.TaxRate, inv.TipAmount); err != nil {
			return err
		}
		if req.Notes != nil {
			inv.Notes = strings.TrimSpace(*req.Notes)
		}
		if req.Status != nil {
			inv.Status = *req.Status
		}
		if req.CurrencyCode != nil {
			currency, err := s.currencySnapshot(ctx, *req.CurrencyCode)
			if err != nil {
				return err
			}
			inv.Currency = currency
		}
		if req.Items != nil {
			items, err := s.buildItems(ctx, req.Items, true)
			if err != nil {
				return err
			}
			inv.Items = items
		}
		calc.Apply(inv)

		if err := s.repo.Update(ctx, inv); err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Mutation("invoice", "update")
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrInvalidID
	}

	err := s.serializer.Do(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.metrics.Mutation("invoice", "delete")
	s.log.Info("invoice deleted", zap.String("invoice_id", id))
	return nil
}

// SetStatus moves an invoice to any of the four statuses.
func (s *Service) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Invoice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	var updated *domain.Invoice
	err := s.serializer.Do(ctx, func(ctx context.Context) error {
		inv, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		inv.Status = status
		if err := s.repo.Update(ctx, inv); err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Mutation("invoice", "set_status")
	s.log.Info("invoice status changed",
		zap.String("invoice_id", id),
		zap.String("status", string(status)),
	)
	return updated, nil
}

// Summary counts invoices and sums approved totals per currency. The base
// figure converts each total with the rate captured on its invoice.
func (s *Service) Summary(ctx context.Context) (*domain.Summary, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.Summary{
		InvoiceCount:        len(items),
		ApprovedRevenue:     map[string]decimal.Decimal{},
		ApprovedRevenueBase: decimal.Zero,
	}
	for _, inv := range items {
		switch inv.Status {
		case domain.StatusPending:
			summary.PendingCount++
		case domain.StatusApproved:
			code := inv.Currency.Code
			summary.ApprovedRevenue[code] = summary.ApprovedRevenue[code].Add(inv.Total)

			base, err := rate.ToBase(inv.Total, inv.Currency)
			if err != nil {
				return nil, fmt.Errorf("invoice %s: %w", inv.ID, err)
			}
			summary.ApprovedRevenueBase = summary.ApprovedRevenueBase.Add(base)
		}
	}
	return summary, nil
}

// Quote prices a draft without storing it.
func (s *Service) Quote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	if err := validateCharges(req.TaxRate, req.TipAmount); err != nil {
		return nil, err
	}

	items, err := s.buildItems(ctx, req.Items, false)
	if err != nil {
		return nil, err
	}

	draft := domain.Invoice{Items: items, TaxRate: req.TaxRate, TipAmount: req.TipAmount}
	calc.Apply(&draft)
	return &domain.Quote{
		Items:     draft.Items,
		Subtotal:  draft.Subtotal,
		TaxAmount: draft.TaxAmount,
		Total:     draft.Total,
	}, nil
}

// buildItems validates inputs and fills description, unit and price from
// the referenced product when they are left empty. The category must be the
// product's own. Item ids are kept when given, must not repeat, and are
// generated otherwise if assignIDs is set.
func (s *Service) buildItems(ctx context.Context, inputs []domain.ItemInput, assignIDs bool) ([]domain.Item, error) {
	products, err := s.productIndex(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		categoryID := strings.TrimSpace(in.CategoryID)
		if categoryID == "" {
			return nil, domain.ErrInvalidItemCategory
		}
		productID := strings.TrimSpace(in.ProductID)
		if productID == "" {
			return nil, domain.ErrInvalidItemProduct
		}
		product, ok := products[productID]
		if !ok {
			return nil, domain.ErrInvalidItemProduct
		}
		if product.CategoryID != categoryID {
			return nil, domain.ErrInvalidItemCategory
		}
		if in.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}

		price := product.Price
		if in.Price != nil {
			price = *in.Price
		}
		if price.IsNegative() {
			return nil, domain.ErrInvalidPrice
		}

		item := domain.Item{
			ID:          strings.TrimSpace(in.ID),
			CategoryID:  categoryID,
			ProductID:   productID,
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
			Unit:        strings.TrimSpace(in.Unit),
			Price:       price,
		}
		if item.Description == "" {
			item.Description = product.Name
		}
		if item.Unit == "" {
			item.Unit = product.Unit
		}
		if item.ID != "" {
			if _, dup := seen[item.ID]; dup {
				return nil, domain.ErrDuplicateItemID
			}
			seen[item.ID] = struct{}{}
		} else if assignIDs {
			item.ID = s.genID.NewID()
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) productIndex(ctx context.Context) (map[string]productdomain.Product, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]productdomain.Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}
	return index, nil
}

func (s *Service) currencySnapshot(ctx context.Context, code string) (currencydomain.Currency, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return currencydomain.Currency{}, domain.ErrInvalidCurrency
	}
	currency, err := s.currencies.FindByCode(ctx, code)
	if err != nil {
		return currencydomain.Currency{}, err
	}
	if currency == nil {
		return currencydomain.Currency{}, domain.ErrInvalidCurrency
	}
	return *currency, nil
}

// nextNumber draws invoice numbers until one is not yet taken.
func (s *Service) nextNumber(ctx context.Context, cfg config.InvoicingConfig) (string, error) {
	existing, err := s.repo.FindAll(ctx)
	if err != nil {
		return "", err
	}
	taken := make(map[string]struct{}, len(existing))
	for _, inv := range existing {
		taken[inv.InvoiceNumber] = struct{}{}
	}

	for attempt := 1; attempt <= cfg.NumberAttempts; attempt++ {
		number, err := s.numbers.Next(cfg.NumberPrefix)
		if err != nil {
			return "", err
		}
		if _, dup := taken[number]; !dup {
			return number, nil
		}
		s.log.Warn("invoice number collision",
			zap.String("invoice_number", number),
			zap.Int("attempt", attempt),
		)
	}
	return "", domain.ErrNumberExhausted
}

func normalizeCustomer(c domain.Customer) (domain.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return domain.Customer{}, domain.ErrInvalidCustomerName
	}
	c.Email = strings.TrimSpace(c.Email)
	c.Address = strings.TrimSpace(c.Address)
	c.Phone = strings.TrimSpace(c.Phone)
	return c, nil
}

func validateCharges(taxRate, tipAmount decimal.Decimal) error {
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return domain.ErrInvalidTaxRate
	}
	if tipAmount.IsNegative() {
		return domain.ErrInvalidTipAmount
	}
	return nil
}
