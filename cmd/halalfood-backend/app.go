package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"halalfood-backend/internal/config"
	"halalfood-backend/internal/domain"
	"halalfood-backend/internal/infrastructure/events"
	"halalfood-backend/internal/infrastructure/repo"
	"halalfood-backend/internal/usecase"
)

type store interface {
	usecase.UserRepo
	usecase.OrderRepo
	usecase.CartRepo
	usecase.CatalogRepo
	Close(ctx context.Context) error
}

type publisher interface {
	Publish(ctx context.Context, ev domain.OrderEvent) error
	Close() error
}

func newLogger(json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	log := slog.New(h)
	slog.SetDefault(log)
	return log
}

func openStore(ctx context.Context, cfg config.Config) (store, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return repo.NewPostgresRepo(dialCtx, cfg.DSN())
	case config.DriverMongo:
		return repo.NewMongoRepo(dialCtx, cfg.DSN(), cfg.DBName)
	case config.DriverMemory:
		return repo.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openPublisher(cfg config.Config) (publisher, error) {
	if cfg.AMQPURL == "" {
		return events.Nop{}, nil
	}
	return events.NewAMQPPublisher(cfg.AMQPURL, events.DefaultQueue)
}

// seedAdmins grants the admin role to each configured email through the same
// user service the API uses, so it works with every store driver.
func seedAdmins(ctx context.Context, users *usecase.UserService, emails []string, log *slog.Logger) error {
	for _, email := range emails {
		changed, err := users.EnsureAdmin(ctx, email)
		if err != nil {
			return fmt.Errorf("seed admin %s: %w", email, err)
		}
		log.Info("admin seeded", "email", email, "changed", changed)
	}
	return nil
}

// seedCatalog loads the menu and reviews from a JSON file into the memory
// store. Persistent stores keep their own catalog and are left alone.
func seedCatalog(st store, path string, log *slog.Logger) error {
	mem, ok := st.(*repo.MemoryStore)
	if !ok || path == "" {
		if path != "" {
			log.Warn("seed file ignored for persistent store", "path", path)
		}
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	menu, reviews, err := repo.ReadCatalogSeed(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	mem.Seed(menu, reviews)
	log.Info("catalog seeded", "path", path, "menu", len(menu), "reviews", len(reviews))
	return nil
}

func closeWithTimeout(log *slog.Logger, name string, closeFn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := closeFn(ctx); err != nil {
		log.Warn("close "+name, "err", err)
	}
}
