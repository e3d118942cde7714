package domain

import "context"

type Repository interface {
	FindAll(ctx context.Context) ([]Currency, error)
	FindByCode(ctx context.Context, code string) (*Currency, error)
	Insert(ctx context.Context, currency *Currency) error
	Update(ctx context.Context, currency *Currency) error
	Delete(ctx context.Context, code string) error
}
