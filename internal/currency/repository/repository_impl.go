package repository

import (
	"context"

	"github.com/smallbiznis/invoicebook/internal/config"
	"github.com/smallbiznis/invoicebook/internal/currency/domain"
	"github.com/smallbiznis/invoicebook/internal/seed"
	"github.com/smallbiznis/invoicebook/internal/store"
	"go.uber.org/fx"
)

type repo struct {
	col *store.Collection[domain.Currency]
}

func New(st store.Store, seedFn func() []domain.Currency) domain.Repository {
	return &repo{col: store.NewCollection(st, store.KeyCurrencies, seedFn)}
}

type Params struct {
	fx.In

	Cfg   config.Config
	Store store.Store
}

func Provide(p Params) domain.Repository {
	if p.Cfg.Store.Bootstrap {
		return New(p.Store, seed.Currencies)
	}
	return New(p.Store, nil)
}

func (r *repo) FindAll(ctx context.Context) ([]domain.Currency, error) {
	return r.col.Load(ctx)
}

// FindByCode matches codes case-sensitively.
func (r *repo) FindByCode(ctx context.Context, code string) (*domain.Currency, error) {
	items, err := r.col.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Code == code {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (r *repo) Insert(ctx context.Context, currency *domain.Currency) error {
	items, err := r.col.Load(ctx)
	if err != nil {
		return err
	}
	return r.col.Replace(ctx, append(items, *currency))
}

func (r *repo) Update(ctx context.Context, currency *domain.Currency) error {
	items, err := r.col.Load(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].Code == currency.Code {
			items[i] = *currency
			return r.col.Replace(ctx, items)
		}
	}
	return domain.ErrNotFound
}

func (r *repo) Delete(ctx context.Context, code string) error {
	items, err := r.col.Load(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, item := range items {
		if item.Code != code {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return domain.ErrNotFound
	}
	return r.col.Replace(ctx, kept)
}
