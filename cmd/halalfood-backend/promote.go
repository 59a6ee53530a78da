package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"halalfood-backend/internal/config"
	"halalfood-backend/internal/usecase"
)

var errMemoryPromote = errors.New("promote needs a persistent store (--store postgres|mongo); " +
	"the memory store lives inside the server process, start it with --admin-email instead")

// promoteCmd grants the admin role from the command line. It is how the first
// admin is created, since the HTTP route already requires one.
func promoteCmd(cfg *config.Config) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Grant the admin role to an existing user",
		Long: `Grant the admin role to a user who has already signed in once.

Examples:
  halalfood-backend promote --email owner@example.com --store mongo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.StoreDriver == config.DriverMemory {
				return errMemoryPromote
			}
			ctx := cmd.Context()
			log := newLogger(cfg.LogJSON)
			st, err := openStore(ctx, *cfg)
			if err != nil {
				return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
			}
			defer closeWithTimeout(log, "store", st.Close)

			users := &usecase.UserService{Repo: st}
			n, err := users.PromoteByEmail(ctx, email)
			if err != nil {
				return err
			}
			log.Info("promote user", "email", email, "modified", n)
			if n == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already an admin\n", email)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the user to promote")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
