package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/payee-classifier/internal/cli"
	"github.com/Veraticus/payee-classifier/internal/common"
	"github.com/Veraticus/payee-classifier/internal/config"
	"github.com/Veraticus/payee-classifier/internal/engine"
	"github.com/Veraticus/payee-classifier/internal/export"
	"github.com/Veraticus/payee-classifier/internal/ingest"
	"github.com/Veraticus/payee-classifier/internal/sheets"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [FILE]",
		Short: "Classify the payees in a CSV or XLSX file",
		Long: `Classify every payee name in an uploaded file and export the results
merged onto the original rows.

Examples:
  payee classify payments.csv --column Vendor
  payee classify ledger.xlsx --sheet 2024 --output classified.xlsx
  payee classify payments.csv --offline --concurrency 16 --sheets
  payee classify --name "Acme Widgets LLC" --name "Jane Doe"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().StringP("column", "c", "", "column holding payee names (default: detect)")
	cmd.Flags().String("sheet", "", "worksheet to read from an XLSX file (default: first)")
	cmd.Flags().StringP("output", "o", "", "output file, .csv or .xlsx (default: FILE_classified.EXT)")
	cmd.Flags().StringArrayP("name", "n", nil, "classify a single name instead of a file (repeatable)")
	cmd.Flags().Bool("sheets", false, "also export to Google Sheets")
	cmd.Flags().Bool("offline", false, "skip the AI tier")
	cmd.Flags().Int("concurrency", 0, "names classified in parallel (default from config)")
	cmd.Flags().Bool("no-save", false, "do not store results in the database")
	cmd.Flags().BoolP("quiet", "q", false, "hide the progress bar")

	_ = viper.BindPFlag("llm.offline", cmd.Flags().Lookup("offline"))

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	names, _ := cmd.Flags().GetStringArray("name")

	if len(args) == 0 && len(names) == 0 {
		return common.NewUserError("Provide a file to classify or at least one --name", nil)
	}

	if cmd.Flags().Changed("concurrency") {
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		viper.Set("batch.concurrency", concurrency)
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if len(args) == 0 {
		out := cmd.OutOrStdout()
		for _, name := range names {
			fmt.Fprintln(out, cli.FormatResult(name, a.engine.Classify(ctx, name)))
			fmt.Fprintln(out)
		}
		return nil
	}

	return classifyFile(cmd, a, args[0])
}

func classifyFile(cmd *cobra.Command, a *app, path string) error {
	column, _ := cmd.Flags().GetString("column")
	sheet, _ := cmd.Flags().GetString("sheet")
	output, _ := cmd.Flags().GetString("output")
	toSheets, _ := cmd.Flags().GetBool("sheets")
	noSave, _ := cmd.Flags().GetBool("no-save")
	quiet, _ := cmd.Flags().GetBool("quiet")

	file, err := ingest.ReadFile(path, ingest.Options{Column: column, Sheet: sheet})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrMissingColumn):
			return common.NewUserError("Could not find the payee column; pass --column", err)
		case errors.Is(err, common.ErrUnsupportedFile):
			return common.NewUserError("Only .csv, .tsv and .xlsx files are supported", err)
		case errors.Is(err, common.ErrNoPayees):
			return common.NewUserError("The file has no payee rows", err)
		}
		return err
	}

	if output == "" {
		output = defaultOutputPath(path)
	}

	a.logger.Info("Classifying payees",
		"file", path,
		"column", file.Column,
		"payees", len(file.Names),
		"offline", a.engine.Offline(),
		"concurrency", a.cfg.Batch.Concurrency)

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context(), !noSave)

	events := make(chan engine.ProgressEvent, 64)
	var reporter *cli.ProgressReporter
	if !quiet {
		reporter = cli.NewProgressReporter(cmd.ErrOrStderr(), len(file.Names))
		go reporter.Consume(events)
	}

	var progress chan<- engine.ProgressEvent
	if reporter != nil {
		progress = events
	}

	result, err := a.batchProcessor(!noSave).Process(ctx, file.Names, file.Rows, progress)
	close(events)
	if reporter != nil {
		reporter.Wait()
	}
	if err != nil {
		if interrupts.WasInterrupted() {
			return common.NewUserError("Classification interrupted", err)
		}
		return fmt.Errorf("batch classification failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatBatchSummary(result))

	exporter := export.New(a.store, a.logger)
	table, err := exporter.Table(ctx, result)
	if err != nil {
		return fmt.Errorf("failed to build export: %w", err)
	}

	if err := export.WriteFile(output, table); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Wrote "+output))

	if toSheets {
		sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
		if err != nil {
			return common.NewUserError("Google Sheets is not configured", err)
		}
		writer, err := sheets.NewWriter(ctx, *sheetsCfg, a.logger)
		if err != nil {
			return fmt.Errorf("failed to create sheets writer: %w", err)
		}
		id, err := writer.WriteTable(ctx, table)
		if err != nil {
			return fmt.Errorf("failed to export to Google Sheets: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Exported to spreadsheet "+id))
	}

	return nil
}

// defaultOutputPath names the export after the input, keeping CSV or XLSX.
func defaultOutputPath(input string) string {
	ext := strings.ToLower(filepath.Ext(input))
	base := strings.TrimSuffix(input, filepath.Ext(input))
	switch ext {
	case ".xlsx", ".xlsm":
		return base + "_classified.xlsx"
	default:
		return base + "_classified.csv"
	}
}
