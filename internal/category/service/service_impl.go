package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/invoicebook/internal/category/domain"
	"github.com/smallbiznis/invoicebook/internal/clock"
	"github.com/smallbiznis/invoicebook/internal/idgen"
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
	GenID      idgen.Generator
	Clock      clock.Clock
	Serializer store.Serializer
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	repo       domain.Repository
	guard      *integrity.Guard
	genID      idgen.Generator
	clock      clock.Clock
	serializer store.Serializer
	metrics    *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("category.service"),
		repo:       p.Repo,
		guard:      p.Guard,
		genID:      p.GenID,
		clock:      p.Clock,
		serializer: p.Serializer,
		metrics:    p.Metrics,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Category, error) {
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

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	var created *domain.Category
	err := s.serializer.Do(ctx, func(ctx context.Context) error {
		c := &domain.Category{
			ID:          s.genID.NewID(),
			Name:        name,
			Description: strings.TrimSpace(req.Description),
			CreatedAt:   s.clock.Now(),
		}
		if err := s.repo.Insert(ctx, c); err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Mutation("category", "create")
	s.log.Info("category created", zap.String("category_id", created.ID))
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Category, error) {
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

	var updated *domain.Category
	err := s.serializer.Do(ctx, func(ctx context.Context) error {
		item, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		if req.Name != nil {
			item.Name = name
		}
		if req.Description != nil {
			item.Description = strings.TrimSpace(*req.Description)
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

	s.metrics.Mutation("category", "update")
	return updated, nil
}

// Delete refuses to remove a category that still has products.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrInvalidID
	}

	err := s.serializer.Do(ctx, func(ctx context.Context) error {
		inUse, err := s.guard.CategoryInUse(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			s.metrics.BlockedDelete("category", "in_use")
			return domain.ErrInUse
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.metrics.Mutation("category", "delete")
	s.log.Info("category deleted", zap.String("category_id", id))
	return nil
}
