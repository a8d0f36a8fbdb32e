package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/sol-search/internal/app"
	"github.com/Veraticus/sol-search/internal/cli"
)

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [text]",
		Short: "Answer a single query, or read queries interactively",
		Long: `Resolve a Korean banking request and print the response envelope.

With no arguments, queries are read from standard input one per line until
EOF or interrupt.`,
		Example: `  solsearch query 김네모 10만원 보내줘
  solsearch query --json 지난달 입금내역
  solsearch query --no-model --anchor-date 2025-08-10`,
		RunE: runQuery,
	}

	cmd.Flags().Bool("json", false, "print the envelope as JSON")
	cmd.Flags().Bool("explain", false, "also print the classified intent")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	explain, _ := cmd.Flags().GetBool("explain")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("Failed to close application", "error", err)
		}
	}()

	out := cmd.OutOrStdout()
	emit := func(res app.Result) error {
		if asJSON {
			return writeResultJSON(out, res, explain)
		}
		if explain {
			fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("intent=%s source=%s confidence=%.2f %s",
				res.Classified.Intent, res.Classified.Source, res.Classified.Confidence, res.Classified.Reasoning)))
		}
		_, err := fmt.Fprintln(out, cli.RenderEnvelope(res.Response))
		return err
	}

	if len(args) > 0 {
		return emit(a.Pipeline.Handle(ctx, strings.Join(args, " ")))
	}

	reader := cli.NewQueryReader(cmd.InOrStdin())
	for {
		if !asJSON {
			fmt.Fprint(out, cli.FormatPrompt("solsearch"))
		}
		q, err := reader.ReadQuery(ctx)
		if errors.Is(err, io.EOF) || errors.Is(err, cli.ErrInputCancelled) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read query: %w", err)
		}
		if err := emit(a.Pipeline.Handle(ctx, q)); err != nil {
			return err
		}
	}
}

func writeResultJSON(w io.Writer, res app.Result, full bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if full {
		return enc.Encode(res)
	}
	return enc.Encode(res.Response)
}
