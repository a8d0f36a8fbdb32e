// Package app wires the store, the two classification tiers, the resolver
// and the dispatcher into a single query pipeline.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/sol-search/internal/config"
	"github.com/Veraticus/sol-search/internal/dispatch"
	"github.com/Veraticus/sol-search/internal/engine"
	"github.com/Veraticus/sol-search/internal/llm"
	"github.com/Veraticus/sol-search/internal/model"
	"github.com/Veraticus/sol-search/internal/service"
	"github.com/Veraticus/sol-search/internal/storage"
)

// Result is one answered query.
type Result struct {
	Query      string                 `json:"query"`
	Classified model.ClassifiedIntent `json:"classified"`
	Response   model.ResponseEnvelope `json:"response"`
	Elapsed    time.Duration          `json:"elapsed_ns"`
}

// Pipeline resolves a query and dispatches the result.
type Pipeline struct {
	resolver   *engine.Resolver
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

// NewPipeline joins a resolver and a dispatcher.
func NewPipeline(resolver *engine.Resolver, dispatcher *dispatch.Dispatcher, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{resolver: resolver, dispatcher: dispatcher, logger: logger}
}

// Handle answers query. It never fails: errors surface as an error envelope.
func (p *Pipeline) Handle(ctx context.Context, query string) Result {
	start := time.Now()

	classified := p.resolver.Resolve(ctx, query)
	env := p.dispatcher.Dispatch(ctx, classified, query)

	elapsed := time.Since(start)
	p.logger.Debug("Query handled",
		"query", query,
		"intent", classified.Intent,
		"source", classified.Source,
		"action_type", env.ActionType,
		"duration", elapsed)

	return Result{
		Query:      query,
		Classified: classified,
		Response:   env,
		Elapsed:    elapsed,
	}
}

// App owns every long-lived collaborator.
type App struct {
	Store      service.Storage
	Pipeline   *Pipeline
	classifier *llm.Classifier
	logger     *slog.Logger
}

// New builds the application from a validated configuration.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := OpenStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	extractor, err := cfg.NewExtractor()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	a := &App{Store: store, logger: logger}

	var modelTier engine.ModelClassifier
	if cfg.ModelEnabled() {
		classifier, err := llm.NewClassifier(cfg.LLMConfig(), logger)
		if err != nil {
			logger.Warn("Model classifier unavailable, using rule-based extraction only",
				"provider", cfg.LLM.Provider,
				"error", err)
		} else {
			a.classifier = classifier
			modelTier = classifier
		}
	} else {
		logger.Info("Model classifier disabled, using rule-based extraction only")
	}

	resolver := engine.NewResolver(modelTier, extractor, cfg.EngineConfig(), logger)
	dispatcher := dispatch.New(store, extractor, cfg.DispatchConfig(), logger)
	a.Pipeline = NewPipeline(resolver, dispatcher, logger)

	return a, nil
}

// ModelEnabled reports whether queries reach the model tier.
func (a *App) ModelEnabled() bool {
	return a.classifier != nil
}

// Close releases the classifier and the store.
func (a *App) Close() error {
	if a.classifier != nil {
		a.classifier.Close()
	}
	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	return nil
}

// OpenStorage opens the configured store, migrates it, and seeds it when empty.
// A configured seed file replaces the built-in records.
func OpenStorage(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (service.Storage, error) {
	var store service.Storage
	switch cfg.Driver {
	case config.DriverSQLite:
		s, err := storage.NewSQLiteStorage(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		store = s
	default:
		s, err := storage.NewMemoryStore()
		if err != nil {
			return nil, err
		}
		store = s
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate storage: %w", err)
	}

	records := storage.DefaultSeed()
	if cfg.SeedFile != "" {
		loaded, err := storage.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		records = loaded
	}

	inserted, err := storage.Seed(ctx, store, records)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to seed storage: %w", err)
	}
	logger.Debug("Storage ready",
		"driver", cfg.Driver,
		"seeded", inserted)
	return store, nil
}
