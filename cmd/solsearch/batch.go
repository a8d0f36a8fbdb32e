package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/sol-search/internal/app"
	"github.com/Veraticus/sol-search/internal/cli"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <queries-file>",
		Short: "Answer every query in a file as JSON lines",
		Long: `Read one query per line (blank lines and # comments are skipped) and
write one JSON result per line with the classification and the envelope.
Use - to read from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: runBatch,
	}

	cmd.Flags().StringP("output", "o", "", "write results to this file instead of stdout")
	cmd.Flags().Bool("no-progress", false, "hide the progress bar")

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	var in io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0]) //nolint:gosec // path supplied by the operator
		if err != nil {
			return fmt.Errorf("failed to open queries file: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	ctx := cmd.Context()
	queries, err := cli.NewQueryReader(in).ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read queries: %w", err)
	}
	if len(queries) == 0 {
		slog.Warn("No queries to process", "source", args[0])
		return nil
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath) //nolint:gosec // path supplied by the operator
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("Failed to close application", "error", err)
		}
	}()

	var progress io.Writer
	if !noProgress {
		progress = cmd.ErrOrStderr()
	}

	stats, err := cli.RunBatch(ctx, a.Pipeline, queries, out, progress)
	fmt.Fprintln(cmd.ErrOrStderr(), cli.RenderBatchStats(stats))
	return err
}
