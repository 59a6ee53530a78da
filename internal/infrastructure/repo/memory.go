package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"halalfood-backend/internal/domain"
)

// MemoryStore keeps every collection in process. Each method holds the lock
// for its whole operation, so conditional updates are atomic.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	orders  map[string]*domain.Order
	carts   map[string]*domain.CartItem
	menu    []domain.MenuItem
	reviews []domain.Review
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]*domain.User),
		orders: make(map[string]*domain.Order),
		carts:  make(map[string]*domain.CartItem),
	}
}

func (s *MemoryStore) Close(context.Context) error { return nil }

// users

func (s *MemoryStore) InsertUserIfAbsent(_ context.Context, u *domain.User) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return existing.ID, false, nil
		}
	}
	cp := *u
	cp.ID = uuid.NewString()
	s.users[cp.ID] = &cp
	return cp.ID, true, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*domain.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, true, nil
		}
	}
	return nil, false, nil
}

func (s *MemoryStore) ListUsers(context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) SetUserRole(_ context.Context, id, role string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.Role == role {
		return 0, nil
	}
	u.Role = role
	return 1, nil
}

// orders

func (s *MemoryStore) InsertOrder(_ context.Context, o *domain.Order) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.orders {
		if existing.TransactionID == o.TransactionID {
			return "", domain.ErrDuplicate
		}
	}
	cp := *o
	cp.Cart = append([]domain.LineItem(nil), o.Cart...)
	cp.ID = uuid.NewString()
	s.orders[cp.ID] = &cp
	return cp.ID, nil
}

func (s *MemoryStore) GetOrderByTransactionID(_ context.Context, tranID string) (*domain.Order, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o := s.findOrder(tranID)
	if o == nil {
		return nil, false, nil
	}
	cp := *o
	cp.Cart = append([]domain.LineItem(nil), o.Cart...)
	return &cp, true, nil
}

func (s *MemoryStore) ListOrders(context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		cp := *o
		cp.Cart = append([]domain.LineItem(nil), o.Cart...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) MarkOrderPaid(_ context.Context, tranID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.findOrder(tranID)
	if o == nil || o.PaidStatus {
		return 0, nil
	}
	o.PaidStatus = true
	return 1, nil
}

func (s *MemoryStore) DeleteUnpaidOrder(_ context.Context, tranID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.findOrder(tranID)
	if o == nil || o.PaidStatus {
		return 0, nil
	}
	delete(s.orders, o.ID)
	return 1, nil
}

func (s *MemoryStore) findOrder(tranID string) *domain.Order {
	for _, o := range s.orders {
		if o.TransactionID == tranID {
			return o
		}
	}
	return nil
}

// carts

func (s *MemoryStore) ListCartItems(_ context.Context, email string) ([]domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartItem, 0)
	for _, it := range s.carts {
		if it.Email == email {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) InsertCartItem(_ context.Context, it *domain.CartItem) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *it
	cp.ID = uuid.NewString()
	s.carts[cp.ID] = &cp
	return cp.ID, nil
}

func (s *MemoryStore) DeleteCartItem(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[id]; !ok {
		return 0, nil
	}
	delete(s.carts, id)
	return 1, nil
}

// catalog

func (s *MemoryStore) ListMenu(context.Context) ([]domain.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.MenuItem{}, s.menu...), nil
}

func (s *MemoryStore) ListReviews(context.Context) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Review{}, s.reviews...), nil
}

// Seed replaces the catalog collections, assigning ids where missing.
func (s *MemoryStore) Seed(menu []domain.MenuItem, reviews []domain.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menu = make([]domain.MenuItem, 0, len(menu))
	for _, m := range menu {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		s.menu = append(s.menu, m)
	}
	s.reviews = make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		s.reviews = append(s.reviews, r)
	}
}
