package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicebook/internal/currency/domain"
	"github.com/smallbiznis/invoicebook/internal/currency/rate"
	"github.com/smallbiznis/invoicebook/internal/integrity"
	"github.com/smallbiznis/invoicebook/internal/observability/metrics"
	"github.com/smallbiznis/invoicebook/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Repo       domain.Repository
	Guard      *integrity.Guard
	Serializer store.Serializer
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	repo       domain.Repository
	guard      *integrity.Guard
	serializer store.Serializer
	metrics    *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("currency.service"),
		repo:       p.Repo,
		guard:      p.Guard,
		serializer: p.Serializer,
		metrics:    p.Metrics,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Currency, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) Get(ctx context.Context, code string) (*domain.Currency, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidCode
	}

	item, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// Create adds a currency at rate 1. Codes are compared case-sensitively.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Currency, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, domain.ErrInvalidCode
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		return nil, domain.ErrInvalidSymbol
	}

	c := &domain.Currency{
		Code:   code,
		Name:   name,
		Symbol: symbol,
		Rate:   decimal.NewFromInt(1),
	}
	err := s.serializer.Do(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindByCode(ctx, code)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrCodeExists
		}
		return s.repo.Insert(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Mutation("currency", "create")
	s.log.Info("currency created", zap.String("code", code))
	return c, nil
}

// UpdateRate changes the rate against the base currency. Invoices keep the
// snapshot they were created with.
func (s *Service) UpdateRate(ctx context.Context, code string, newRate decimal.Decimal) (*domain.Currency, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidCode
	}
	if !newRate.IsPositive() {
		return nil, domain.ErrInvalidRate
	}

	var updated *domain.Currency
	err := s.serializer.Do(ctx, func(ctx context.Context) error {
		item, err := s.repo.FindByCode(ctx, code)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		item.Rate = newRate
		if err := s.repo.Update(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Mutation("currency", "update_rate")
	s.log.Info("currency rate updated",
		zap.String("code", code),
		zap.String("rate", newRate.String()),
	)
	return updated, nil
}

// Delete refuses to remove a currency used by an invoice, and refuses to
// remove the last remaining currency.
func (s *Service) Delete(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.ErrInvalidCode
	}

	err := s.serializer.Do(ctx, func(ctx context.Context) error {
		items, err := s.repo.FindAll(ctx)
		if err != nil {
			return err
		}
		found := false
		for _, item := range items {
			if item.Code == code {
				found = true
				break
			}
		}
		if !found {
			return domain.ErrNotFound
		}

		inUse, err := s.guard.CurrencyInUse(ctx, code)
		if err != nil {
			return err
		}
		if inUse {
			s.metrics.BlockedDelete("currency", "in_use")
			return domain.ErrInUse
		}
		if len(items) <= 1 {
			s.metrics.BlockedDelete("currency", "last_resource")
			return domain.ErrLastCurrency
		}
		return s.repo.Delete(ctx, code)
	})
	if err != nil {
		return err
	}

	s.metrics.Mutation("currency", "delete")
	s.log.Info("currency deleted", zap.String("code", code))
	return nil
}

func (s *Service) Convert(ctx context.Context, req domain.ConvertRequest) (*domain.ConvertResponse, error) {
	from, err := s.Get(ctx, req.From)
	if err != nil {
		return nil, err
	}
	to, err := s.Get(ctx, req.To)
	if err != nil {
		return nil, err
	}

	converted, err := rate.Convert(req.Amount, *from, *to)
	if err != nil {
		return nil, err
	}
	return &domain.ConvertResponse{
		Amount:    req.Amount,
		From:      *from,
		To:        *to,
		Converted: converted,
	}, nil
}
