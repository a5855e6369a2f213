package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/staffmcp/staffmcp/internal/store"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the HR schema in Postgres and seed the reference employees",
	Args:  cobra.NoArgs,
	RunE:  runBootstrap,
}

func runBootstrap(_ *cobra.Command, _ []string) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	ctx := context.Background()
	pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.QueryTimeoutDuration())
	if err != nil {
		return err
	}
	defer pg.Close()

	inserted, err := pg.Bootstrap(ctx)
	if err != nil {
		return err
	}
	log.Info().Int64("inserted", inserted).Msg("database bootstrapped")
	fmt.Printf("Database bootstrapped: %d new rows\n", inserted)
	return nil
}
