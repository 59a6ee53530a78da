package usecase

import (
	"context"
	"strings"
	"time"

	"halalfood-backend/internal/domain"
)

type UserRepo interface {
	// InsertUserIfAbsent inserts u unless a user with the same email exists.
	// It reports the new id and whether an insert happened.
	InsertUserIfAbsent(ctx context.Context, u *domain.User) (string, bool, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, bool, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	// SetUserRole reports the number of users modified.
	SetUserRole(ctx context.Context, id, role string) (int64, error)
}

type UserService struct {
	Repo UserRepo
}

func (s *UserService) Register(ctx context.Context, u *domain.User) (string, bool, error) {
	u.Email = strings.TrimSpace(u.Email)
	if u.Email == "" {
		return "", false, ErrBadRequest("email required")
	}
	// Roles are only ever granted through Promote.
	u.Role = ""
	u.CreatedAt = time.Now().UTC()
	return s.Repo.InsertUserIfAbsent(ctx, u)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *UserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, nil
	}
	u, ok, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return u.IsAdmin(), nil
}

// CheckAdmin answers whether email is an admin, but only to its own owner.
func (s *UserService) CheckAdmin(ctx context.Context, callerEmail, email string) (bool, error) {
	if callerEmail != email {
		return false, nil
	}
	return s.IsAdmin(ctx, email)
}

func (s *UserService) Promote(ctx context.Context, id string) (int64, error) {
	if strings.TrimSpace(id) == "" {
		return 0, ErrBadRequest("user id required")
	}
	return s.Repo.SetUserRole(ctx, id, domain.RoleAdmin)
}

func (s *UserService) PromoteByEmail(ctx context.Context, email string) (int64, error) {
	u, ok, err := s.Repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNotFound("user")
	}
	return s.Repo.SetUserRole(ctx, u.ID, domain.RoleAdmin)
}

// EnsureAdmin registers email if it has never signed in and grants it the
// admin role. It reports whether the role changed.
func (s *UserService) EnsureAdmin(ctx context.Context, email string) (bool, error) {
	if _, _, err := s.Register(ctx, &domain.User{Email: email}); err != nil {
		return false, err
	}
	n, err := s.PromoteByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
