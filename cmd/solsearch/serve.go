package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/sol-search/internal/app"
	"github.com/Veraticus/sol-search/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API over HTTP",
		Long: `Start the HTTP API.

  POST /api/search  {"query": "..."}  returns a response envelope
  GET  /health                        reports liveness and record count
  GET  /metrics                       exposes Prometheus metrics`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default from server.addr)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
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

	slog.Info("Starting solsearch API",
		"addr", cfg.Server.Addr,
		"storage", cfg.Storage.Driver,
		"model_enabled", a.ModelEnabled(),
		"merge_policy", cfg.NLP.MergePolicy)

	srv := server.New(a.Pipeline, a.Store, server.Config{
		Addr:           cfg.Server.Addr,
		RequestTimeout: cfg.Server.RequestTimeout,
	}, slog.Default())
	return srv.ListenAndServe(ctx)
}
