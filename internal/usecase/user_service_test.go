package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"halalfood-backend/internal/domain"
	"halalfood-backend/internal/infrastructure/repo"
)

func TestUserService_RegisterIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	svc := &UserService{Repo: store}

	id, created, err := svc.Register(ctx, &domain.User{Email: "a@example.com", Name: "Alice"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, id)

	before, err := store.ListUsers(ctx)
	require.NoError(t, err)

	_, created, err = svc.Register(ctx, &domain.User{Email: "a@example.com", Name: "Changed"})
	require.NoError(t, err)
	assert.False(t, created)

	after, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUserService_RegisterIgnoresPostedRole(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	svc := &UserService{Repo: store}

	_, _, err := svc.Register(ctx, &domain.User{Email: "a@example.com", Role: domain.RoleAdmin})
	require.NoError(t, err)

	ok, err := svc.IsAdmin(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserService_RegisterRequiresEmail(t *testing.T) {
	svc := &UserService{Repo: repo.NewMemoryStore()}
	_, _, err := svc.Register(context.Background(), &domain.User{Name: "nobody"})
	assert.IsType(t, ErrBadRequest(""), err)
}

func TestUserService_IsAdminRequiresExactRole(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	svc := &UserService{Repo: store}

	roles := map[string]bool{
		"admin":  true,
		"Admin":  false,
		"ADMIN":  false,
		" admin": false,
		"":       false,
		"editor": false,
	}
	i := 0
	for role, want := range roles {
		email := string(rune('a'+i)) + "@example.com"
		i++
		_, _, err := store.InsertUserIfAbsent(ctx, &domain.User{Email: email, Role: role})
		require.NoError(t, err)

		got, err := svc.IsAdmin(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, want, got, "role %q", role)
	}

	got, err := svc.IsAdmin(ctx, "missing@example.com")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestUserService_CheckAdminOnlyAnswersOwner(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	svc := &UserService{Repo: store}
	_, _, err := store.InsertUserIfAbsent(ctx, &domain.User{Email: "root@example.com", Role: domain.RoleAdmin})
	require.NoError(t, err)

	got, err := svc.CheckAdmin(ctx, "root@example.com", "root@example.com")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = svc.CheckAdmin(ctx, "someone@example.com", "root@example.com")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestUserService_Promote(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	svc := &UserService{Repo: store}
	id, _, err := svc.Register(ctx, &domain.User{Email: "a@example.com"})
	require.NoError(t, err)

	n, err := svc.Promote(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	ok, err := svc.IsAdmin(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.PromoteByEmail(ctx, "missing@example.com")
	assert.IsType(t, ErrNotFound(""), err)

	_, err = svc.Promote(ctx, "")
	assert.IsType(t, ErrBadRequest(""), err)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()
	svc := &UserService{Repo: store}

	changed, err := svc.EnsureAdmin(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.True(t, changed)
	ok, err := svc.IsAdmin(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.True(t, ok, "user that never signed in is created as admin")

	_, _, err = svc.Register(ctx, &domain.User{Email: "later@example.com", Name: "Later"})
	require.NoError(t, err)
	changed, err = svc.EnsureAdmin(ctx, "later@example.com")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = svc.EnsureAdmin(ctx, "later@example.com")
	require.NoError(t, err)
	assert.False(t, changed)

	u, _, err := store.GetUserByEmail(ctx, "later@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Later", u.Name, "existing profile is kept")

	_, err = svc.EnsureAdmin(ctx, "  ")
	assert.Error(t, err)
}
