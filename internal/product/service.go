package product

import (
	"context"
	"strings"

	"storefront-be/internal/auth"
	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, opts ListOptions) ([]Product, int64, error)
	Get(ctx context.Context, id string) (*Product, error)
	Lookup(ctx context.Context, ids []string) (map[string]Product, error)
	Create(ctx context.Context, principal auth.Principal, input Input) (*Product, error)
	Update(ctx context.Context, id string, input Input) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]Product, int64, error) {
	opts.Search = strings.TrimSpace(opts.Search)
	if opts.CategoryID != "" && !utils.IsUUID(opts.CategoryID) {
		return []Product{}, 0, nil
	}
	return s.repo.List(ctx, opts)
}

func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	if !utils.IsUUID(id) {
		return nil, ErrProductNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Lookup resolves product ids to their current data. Unknown ids are
// simply missing from the map.
func (s *service) Lookup(ctx context.Context, ids []string) (map[string]Product, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *service) Create(ctx context.Context, principal auth.Principal, input Input) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
	)

	var p Product
	if principal.UserID != "" {
		uid := principal.UserID
		p.UserID = &uid
	}
	if err := applyInput(&p, input); err != nil {
		log.Warn("invalid product input", zap.Error(err))
		return nil, err
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrNameRequired
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	log.Info("product created", zap.String("product_id", created.ID))
	return created, nil
}

func (s *service) Update(ctx context.Context, id string, input Input) (*Product, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyInput(existing, input); err != nil {
		return nil, err
	}
	if strings.TrimSpace(existing.Name) == "" {
		return nil, ErrNameRequired
	}

	return s.repo.Update(ctx, *existing)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if !utils.IsUUID(id) {
		return ErrProductNotFound
	}
	return s.repo.Delete(ctx, id)
}

func applyInput(p *Product, in Input) error {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
	if in.Category != nil {
		switch {
		case *in.Category == "":
			p.CategoryID = nil
		case !utils.IsUUID(*in.Category):
			return ErrInvalidCategory
		default:
			c := *in.Category
			p.CategoryID = &c
		}
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return ErrInvalidPrice
		}
		p.Price = *in.Price
	}
	if in.CountInStock != nil {
		if *in.CountInStock < 0 {
			return ErrInvalidStock
		}
		p.CountInStock = *in.CountInStock
	}
	return nil
}
