package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/payee-classifier/internal/cli"
	"github.com/Veraticus/payee-classifier/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			status, _ := cmd.Flags().GetBool("status")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := storage.Open(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if !status {
				if err := store.Migrate(ctx); err != nil {
					return fmt.Errorf("failed to run migrations: %w", err)
				}
			}

			version, err := store.SchemaVersion(ctx)
			if err != nil {
				return fmt.Errorf("failed to read schema version: %w", err)
			}

			msg := fmt.Sprintf("Schema version %d of %d (%s)", version, storage.ExpectedSchemaVersion, store.Driver())
			if version < storage.ExpectedSchemaVersion {
				fmt.Fprintln(out, cli.FormatWarning(msg))
				return nil
			}
			fmt.Fprintln(out, cli.FormatSuccess(msg))
			return nil
		},
	}

	cmd.Flags().Bool("status", false, "report the schema version without migrating")
	return cmd
}
