package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/payee-classifier/internal/cli"
	"github.com/Veraticus/payee-classifier/internal/common"
	"github.com/Veraticus/payee-classifier/internal/export"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored classification batches",
		Long: `List the batches stored in the database, or re-export one.

Examples:
  payee history
  payee history --batch 3f0c... --output previous.xlsx`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().StringP("batch", "b", "", "show a single batch")
	cmd.Flags().StringP("output", "o", "", "export the batch to a .csv or .xlsx file")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	batchID, _ := cmd.Flags().GetString("batch")
	output, _ := cmd.Flags().GetString("output")

	if output != "" && batchID == "" {
		return common.NewUserError("--output requires --batch", nil)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if batchID == "" {
		batches, err := store.ListBatches(ctx)
		if err != nil {
			return fmt.Errorf("failed to list batches: %w", err)
		}
		fmt.Fprintln(out, cli.FormatBatchList(batches))
		return nil
	}

	records, err := store.LoadBatch(ctx, batchID)
	if err != nil {
		return fmt.Errorf("failed to load batch: %w", err)
	}
	if len(records) == 0 {
		return common.NewUserError(fmt.Sprintf("No batch %s", batchID), common.ErrNotFound)
	}

	result := export.FromRecords(batchID, records)
	fmt.Fprintln(out, cli.FormatBatchSummary(result))

	if output == "" {
		return nil
	}

	table, err := export.New(store, nil).Table(ctx, result)
	if err != nil {
		return fmt.Errorf("failed to build export: %w", err)
	}
	if err := export.WriteFile(output, table); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintln(out, cli.FormatSuccess("Wrote "+output))
	return nil
}
