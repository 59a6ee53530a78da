package usecase

import (
	"context"
	"strings"

	"halalfood-backend/internal/domain"
)

type CartRepo interface {
	ListCartItems(ctx context.Context, email string) ([]domain.CartItem, error)
	InsertCartItem(ctx context.Context, it *domain.CartItem) (string, error)
	DeleteCartItem(ctx context.Context, id string) (int64, error)
}

type CartService struct {
	Repo CartRepo
}

// List returns the cart of email. Callers are expected to have checked that
// the authenticated user owns email.
func (s *CartService) List(ctx context.Context, email string) ([]domain.CartItem, error) {
	if strings.TrimSpace(email) == "" {
		return []domain.CartItem{}, nil
	}
	return s.Repo.ListCartItems(ctx, email)
}

func (s *CartService) Add(ctx context.Context, it *domain.CartItem) (string, error) {
	it.Email = strings.TrimSpace(it.Email)
	if it.Email == "" {
		return "", ErrBadRequest("email required")
	}
	if strings.TrimSpace(it.Name) == "" {
		return "", ErrBadRequest("name required")
	}
	if it.Price.IsNegative() {
		return "", ErrBadRequest("price must not be negative")
	}
	if it.Quantity <= 0 {
		it.Quantity = 1
	}
	return s.Repo.InsertCartItem(ctx, it)
}

func (s *CartService) Remove(ctx context.Context, id string) (int64, error) {
	if strings.TrimSpace(id) == "" {
		return 0, ErrBadRequest("cart item id required")
	}
	return s.Repo.DeleteCartItem(ctx, id)
}
