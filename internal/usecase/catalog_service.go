package usecase

import (
	"context"

	"halalfood-backend/internal/domain"
)

type CatalogRepo interface {
	ListMenu(ctx context.Context) ([]domain.MenuItem, error)
	ListReviews(ctx context.Context) ([]domain.Review, error)
}

type CatalogService struct {
	Repo CatalogRepo
}

func (s *CatalogService) Menu(ctx context.Context) ([]domain.MenuItem, error) {
	return s.Repo.ListMenu(ctx)
}

func (s *CatalogService) Reviews(ctx context.Context) ([]domain.Review, error) {
	return s.Repo.ListReviews(ctx)
}
