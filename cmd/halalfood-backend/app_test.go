package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"halalfood-backend/internal/config"
	"halalfood-backend/internal/domain"
	"halalfood-backend/internal/infrastructure/events"
	"halalfood-backend/internal/infrastructure/repo"
	"halalfood-backend/internal/usecase"
)

func TestOpenStore(t *testing.T) {
	cfg := config.Default()

	st, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &repo.MemoryStore{}, st)

	cfg.StoreDriver = "sqlite"
	_, err = openStore(context.Background(), cfg)
	assert.Error(t, err)
}

func TestOpenPublisherWithoutBroker(t *testing.T) {
	pub, err := openPublisher(config.Default())
	require.NoError(t, err)
	assert.IsType(t, events.Nop{}, pub)
	assert.NoError(t, pub.Publish(context.Background(), domain.OrderEvent{Type: domain.OrderPlaced}))
}

func TestPromoteRequiresEmail(t *testing.T) {
	cfg := config.Default()
	cmd := promoteCmd(&cfg)
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}

func TestPromoteRejectsMemoryStore(t *testing.T) {
	cfg := config.Default()
	cmd := promoteCmd(&cfg)
	cmd.SetArgs([]string{"--email", "owner@example.com"})
	cmd.SilenceUsage = true
	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, errMemoryPromote)
}

func TestSeedAdminsGrantsAccessOnServerStore(t *testing.T) {
	ctx := context.Background()
	st := repo.NewMemoryStore()
	users := &usecase.UserService{Repo: st}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, seedAdmins(ctx, users, []string{"owner@example.com", "ops@example.com"}, log))
	for _, email := range []string{"owner@example.com", "ops@example.com"} {
		ok, err := users.IsAdmin(ctx, email)
		require.NoError(t, err)
		assert.True(t, ok, email)
	}
	// Restarting with the same list is harmless.
	require.NoError(t, seedAdmins(ctx, users, []string{"owner@example.com"}, log))

	assert.Error(t, seedAdmins(ctx, users, []string{""}, log))
}

func TestSeedCatalog(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"menu":[{"name":"Haleem","price":120}],"reviews":[]}`), 0o600))

	st := repo.NewMemoryStore()
	require.NoError(t, seedCatalog(st, path, log))
	menu, err := st.ListMenu(context.Background())
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "Haleem", menu[0].Name)

	require.NoError(t, seedCatalog(repo.NewMemoryStore(), "", log))
	assert.Error(t, seedCatalog(repo.NewMemoryStore(), filepath.Join(t.TempDir(), "missing.json"), log))
}
