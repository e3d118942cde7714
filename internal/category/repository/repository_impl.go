package repository

import (
	"context"

	"github.com/smallbiznis/invoicebook/internal/category/domain"
	"github.com/smallbiznis/invoicebook/internal/config"
	"github.com/smallbiznis/invoicebook/internal/seed"
	"github.com/smallbiznis/invoicebook/internal/store"
	"go.uber.org/fx"
)

type repo struct {
	col *store.Collection[domain.Category]
}

// New returns a repository over the categories key. seedFn is what an unwritten key
// reads as and may be nil.
func New(st store.Store, seedFn func() []domain.Category) domain.Repository {
	return &repo{col: store.NewCollection(st, store.KeyCategories, seedFn)}
}

type Params struct {
	fx.In

	Cfg   config.Config
	Store store.Store
}

func Provide(p Params) domain.Repository {
	if p.Cfg.Store.Bootstrap {
		return New(p.Store, seed.Categories)
	}
	return New(p.Store, nil)
}

func (r *repo) FindAll(ctx context.Context) ([]domain.Category, error) {
	return r.col.Load(ctx)
}

func (r *repo) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	items, err := r.col.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (r *repo) Insert(ctx context.Context, category *domain.Category) error {
	items, err := r.col.Load(ctx)
	if err != nil {
		return err
	}
	return r.col.Replace(ctx, append(items, *category))
}

func (r *repo) Update(ctx context.Context, category *domain.Category) error {
	items, err := r.col.Load(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == category.ID {
			items[i] = *category
			return r.col.Replace(ctx, items)
		}
	}
	return domain.ErrNotFound
}

func (r *repo) Delete(ctx context.Context, id string) error {
	items, err := r.col.Load(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return domain.ErrNotFound
	}
	return r.col.Replace(ctx, kept)
}
