package product

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"cartwidget/internal/cache"
	"cartwidget/internal/domain"
	productrepo "cartwidget/internal/repository/product"
)

// Service serves the catalog mirror. The cache is optional.
type Service struct {
	repo   productrepo.Repository
	cache  cache.CatalogCache
	logger *zap.Logger
}

func New(repo productrepo.Repository, c cache.CatalogCache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, cache: c, logger: logger}
}

// List returns every product ordered by id, reading through the cache.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	if s.cache != nil {
		products, err := s.cache.Get(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, products); err != nil {
			s.logger.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, id int) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Upsert writes a product and drops the cached listing.
func (s *Service) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	saved, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("catalog cache invalidate failed", zap.Error(err))
		}
	}
	return saved, nil
}
