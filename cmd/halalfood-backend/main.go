package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"halalfood-backend/internal/config"
	"halalfood-backend/internal/env"
)

var Version = "dev"

func main() {
	env.Load(".env", ".env.local")
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.EnvDefaults()

	rootCmd := &cobra.Command{
		Use:           "halalfood-backend",
		Short:         "Halal food ordering API with SSLCommerz checkout",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.Env, "env", cfg.Env, "runtime environment (dev, production)")
	pf.StringVar(&cfg.StoreDriver, "store", cfg.StoreDriver, "store driver: memory, postgres or mongo")
	pf.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "store connection string, overrides DB_* parts")
	pf.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "log as JSON")

	serve := serveCmd(&cfg)
	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(promoteCmd(&cfg))
	// Running the binary without a subcommand starts the API.
	rootCmd.RunE = serve.RunE
	rootCmd.Flags().AddFlagSet(serve.Flags())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
