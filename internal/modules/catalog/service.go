package catalog

import (
	"context"
	"errors"
	"log/slog"
)

// Service exposes the catalog read side and product activation.
type Service interface {
	ListCategoriesWithProducts(ctx context.Context) ([]CategoryWithProducts, error)
	RecentEvents(ctx context.Context, limit int) ([]Event, error)
	ToggleProductActive(ctx context.Context, productID string) (*Product, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// Config holds the dependencies for the catalog service.
type Config struct {
	Repo   Repository
	Logger *slog.Logger
}

func NewService(cfg *Config) Service {
	return &service{repo: cfg.Repo, logger: cfg.Logger}
}

// ListCategoriesWithProducts returns active categories that have at least one
// active product, each with its products.
func (s *service) ListCategoriesWithProducts(ctx context.Context) ([]CategoryWithProducts, error) {
	categories, err := s.repo.ListActiveCategories(ctx)
	if err != nil {
		s.logger.Error("list categories failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	products, err := s.repo.ListActiveProducts(ctx)
	if err != nil {
		s.logger.Error("list products failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	byCategory := make(map[string][]Product, len(categories))
	for _, p := range products {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}

	out := make([]CategoryWithProducts, 0, len(categories))
	for _, c := range categories {
		ps := byCategory[c.ID]
		if len(ps) == 0 {
			continue
		}
		out = append(out, CategoryWithProducts{Category: c, Products: ps})
	}
	return out, nil
}

func (s *service) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 10
	}
	events, err := s.repo.RecentEvents(ctx, limit)
	if err != nil {
		s.logger.Error("list recent events failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	return events, nil
}

func (s *service) ToggleProductActive(ctx context.Context, productID string) (*Product, error) {
	p, err := s.repo.ToggleProductActive(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, err
		}
		s.logger.Error("toggle product failed", "error", err, "product_id", productID)
		return nil, ErrInternal.WithCause(err)
	}
	s.logger.Info("product activation toggled", "product_id", p.ID, "active", p.IsActive)
	return p, nil
}
