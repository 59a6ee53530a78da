package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"halalfood-backend/internal/config"
	"halalfood-backend/internal/infrastructure/sslcommerz"
	"halalfood-backend/internal/server"
	"halalfood-backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *cfg)
		},
	}
	f := cmd.Flags()
	f.IntVar(&cfg.Port, "port", cfg.Port, "listen port")
	f.StringVar(&cfg.PublicBaseURL, "public-base-url", cfg.PublicBaseURL, "base URL the payment gateway calls back on")
	f.StringVar(&cfg.ClientBaseURL, "client-base-url", cfg.ClientBaseURL, "client application URL for post-payment redirects")
	f.BoolVar(&cfg.GatewayLive, "live", cfg.GatewayLive, "use the live SSLCommerz endpoint instead of sandbox")
	f.Float64Var(&cfg.RateRPS, "rate-rps", cfg.RateRPS, "per-IP requests per second on sign-in and checkout, 0 disables")
	f.IntVar(&cfg.RateBurst, "rate-burst", cfg.RateBurst, "per-IP burst on sign-in and checkout")
	f.StringSliceVar(&cfg.TrustedProxies, "trusted-proxy", cfg.TrustedProxies, "proxy IP or CIDR allowed to set X-Forwarded-For (repeatable)")
	f.StringSliceVar(&cfg.AdminEmails, "admin-email", cfg.AdminEmails, "email granted the admin role at startup (repeatable)")
	f.StringVar(&cfg.SeedFile, "seed-file", cfg.SeedFile, "JSON catalog loaded into the memory store")
	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log := newLogger(cfg.LogJSON)
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer closeWithTimeout(log, "store", st.Close)

	if err := seedCatalog(st, cfg.SeedFile, log); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	users := &usecase.UserService{Repo: st}
	if err := seedAdmins(ctx, users, cfg.AdminEmails, log); err != nil {
		return err
	}

	pub, err := openPublisher(cfg)
	if err != nil {
		return fmt.Errorf("connect event broker: %w", err)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Warn("close event publisher", "err", err)
		}
	}()

	gateway := &sslcommerz.Client{
		StoreID:     cfg.StoreID,
		StorePasswd: cfg.StorePasswd,
		Live:        cfg.GatewayLive,
	}
	deps := server.Deps{
		Tokens: &usecase.TokenService{Secret: cfg.AccessTokenSecret},
		Users:  users,
		Orders: &usecase.OrderService{
			Repo:          st,
			Gateway:       gateway,
			Events:        pub,
			PublicBaseURL: cfg.PublicBaseURL,
			Log:           log,
		},
		Carts:   &usecase.CartService{Repo: st},
		Catalog: &usecase.CatalogService{Repo: st},
		Log:     log,
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.New(cfg, deps).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr, "env", cfg.Env, "store", cfg.StoreDriver, "gatewayLive", cfg.GatewayLive)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
