package service

import (
	"context"
	"strings"

	categorydomain "github.com/smallbiznis/invoicebook/internal/category/domain"
	"github.com/smallbiznis/invoicebook/internal/clock"
	"github.com/smallbiznis/invoicebook/internal/idgen"
	"github.com/smallbiznis/invoicebook/internal/integrity"
	"github.com/smallbiznis/invoicebook/internal/observability/metrics"
	"github.com/smallbiznis/invoicebook/internal/product/domain"
	"github.com/smallbiznis/invoicebook/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Repo       domain.Repository
	Categories categorydomain.Repository
	Guard      *integrity.Guard
	GenID      idgen.Generator
	Clock      clock.Clock
	Serializer store.Serializer
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	repo       domain.Repository
	categories categorydomain.Repository
	guard      *integrity.Guard
	genID      idgen.Generator
	clock      clock.Clock
	serializer store.Serializer
	metrics    *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("product.service"),
		repo:       p.Repo,
		categories: p.Categories,
		guard:      p.Guard,
		genID:      p.GenID,
		clock:      p.Clock,
		serializer: p.Serializer,
		metrics:    p.Metrics,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.FindAll(ctx)
}

// ListByCategory returns the products of one category, in insertion order.
func (s *Service) ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return nil, domain.ErrInvalidCategory
	}

	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Product, 0, len(items))
	for _, item := range items {
		if item.CategoryID == categoryID {
			resp = append(resp, item)
		}
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
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

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	categoryID := strings.TrimSpace(req.CategoryID)
	if categoryID == "" {
		return nil, domain.ErrInvalidCategory
	}
	if req.Price.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}

	var created *domain.Product
	err := s.serializer.Do(ctx, func(ctx context.Context) error {
		if err := s.ensureCategory(ctx, categoryID); err != nil {
			return err
		}

		p := &domain.Product{
			ID:          s.genID.NewID(),
			Name:        name,
			Description: strings.TrimSpace(req.Description),
			CategoryID:  categoryID,
			Price:       req.Price,
			Unit:        strings.TrimSpace(req.Unit),
			CreatedAt:   s.clock.Now(),
		}
		if err := s.repo.Insert(ctx, p); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Mutation("product", "create")
	s.log.Info("product created",
		zap.String("product_id", created.ID),
		zap.String("category_id", created.CategoryID),
	)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}

	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
	}
	var categoryID string
	if req.CategoryID != nil {
		categoryID = strings.TrimSpace(*req.CategoryID)
		if categoryID == "" {
			return nil, domain.ErrInvalidCategory
		}
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}

	var updated *domain.Product
	err := s.serializer.Do(ctx, func(ctx context.Context) error {
		item, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		if req.CategoryID != nil && categoryID != item.CategoryID {
			if err := s.ensureCategory(ctx, categoryID); err != nil {
				return err
			}
			item.CategoryID = categoryID
		}
		if req.Name != nil {
			item.Name = name
		}
		if req.Description != nil {
			item.Description = strings.TrimSpace(*req.Description)
		}
		if req.Price != nil {
			item.Price = *req.Price
		}
		if req.Unit != nil {
			item.Unit = strings.TrimSpace(*req.Unit)
		}

		if err := s.repo.Update(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Mutation("product", "update")
	return updated, nil
}

// Delete refuses to remove a product that any invoice line still uses.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrInvalidID
	}

	err := s.serializer.Do(ctx, func(ctx context.Context) error {
		inUse, err := s.guard.ProductInUse(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			s.metrics.BlockedDelete("product", "in_use")
			return domain.ErrInUse
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.metrics.Mutation("product", "delete")
	s.log.Info("product deleted", zap.String("product_id", id))
	return nil
}

func (s *Service) ensureCategory(ctx context.Context, categoryID string) error {
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrInvalidCategory
	}
	return nil
}
