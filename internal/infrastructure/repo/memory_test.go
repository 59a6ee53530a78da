package repo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"halalfood-backend/internal/domain"
)

func TestMemoryStore_InsertUserIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, created, err := s.InsertUserIfAbsent(ctx, &domain.User{Email: "a@example.com", Name: "A"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, id)

	_, created, err = s.InsertUserIfAbsent(ctx, &domain.User{Email: "a@example.com", Name: "Other"})
	require.NoError(t, err)
	assert.False(t, created)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "A", users[0].Name)
}

func TestMemoryStore_SetUserRole(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id, _, err := s.InsertUserIfAbsent(ctx, &domain.User{Email: "a@example.com"})
	require.NoError(t, err)

	n, err := s.SetUserRole(ctx, id, domain.RoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.SetUserRole(ctx, id, domain.RoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n, "already admin")

	n, err = s.SetUserRole(ctx, "missing", domain.RoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	u, ok, err := s.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

func TestMemoryStore_OrderLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	o := &domain.Order{
		Cart:          []domain.LineItem{{Name: "Salad", Price: decimal.NewFromInt(250), Quantity: 2}},
		Total:         decimal.NewFromInt(500),
		Currency:      "BDT",
		TransactionID: "AB12CD",
	}
	id, err := s.InsertOrder(ctx, o)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = s.InsertOrder(ctx, &domain.Order{TransactionID: "AB12CD"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	n, err := s.MarkOrderPaid(ctx, "AB12CD")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.MarkOrderPaid(ctx, "AB12CD")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n, "second confirmation changes nothing")

	n, err = s.DeleteUnpaidOrder(ctx, "AB12CD")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n, "paid orders are not deleted")

	got, ok, err := s.GetOrderByTransactionID(ctx, "AB12CD")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.PaidStatus)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(500)))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.InsertOrder(ctx, &domain.Order{TransactionID: "ZZ99ZZ", Cart: []domain.LineItem{{Name: "Soup"}}})
	require.NoError(t, err)

	got, _, err := s.GetOrderByTransactionID(ctx, "ZZ99ZZ")
	require.NoError(t, err)
	got.Cart[0].Name = "mutated"
	got.PaidStatus = true

	again, _, err := s.GetOrderByTransactionID(ctx, "ZZ99ZZ")
	require.NoError(t, err)
	assert.Equal(t, "Soup", again.Cart[0].Name)
	assert.False(t, again.PaidStatus)
}

func TestMemoryStore_Carts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	idA, err := s.InsertCartItem(ctx, &domain.CartItem{Email: "a@example.com", Name: "Salad"})
	require.NoError(t, err)
	_, err = s.InsertCartItem(ctx, &domain.CartItem{Email: "b@example.com", Name: "Soup"})
	require.NoError(t, err)

	items, err := s.ListCartItems(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Salad", items[0].Name)

	n, err := s.DeleteCartItem(ctx, idA)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.DeleteCartItem(ctx, idA)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	items, err = s.ListCartItems(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Empty(t, items)
}
