// Package dispatch turns a classified intent into a response envelope by
// consulting the transaction store.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/sol-search/internal/classification"
	"github.com/Veraticus/sol-search/internal/common"
	"github.com/Veraticus/sol-search/internal/metrics"
	"github.com/Veraticus/sol-search/internal/model"
	"github.com/Veraticus/sol-search/internal/pattern"
	"github.com/Veraticus/sol-search/internal/service"
)

// Config holds configuration options for the dispatcher.
type Config struct {
	// AnchorDate fixes "today" for relative periods. Zero means the real date.
	AnchorDate time.Time
	// RecentLimit is the size of the default search.
	RecentLimit int
	// MaxResults caps every search result.
	MaxResults int
	// ContactLimit caps the contacts offered on help screens.
	ContactLimit int
	// MinTransferAmount and MaxTransferAmount bound a requested amount.
	// Zero disables the bound.
	MinTransferAmount int64
	MaxTransferAmount int64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		RecentLimit:       10,
		MaxResults:        20,
		ContactLimit:      3,
		MinTransferAmount: 1_000,
		MaxTransferAmount: 5_000_000,
	}
}

type handler func(ctx context.Context, c model.ClassifiedIntent, query string) (model.ResponseEnvelope, error)

// Dispatcher maps a classified intent to its handler. It is the single
// boundary where failures become an error envelope.
type Dispatcher struct {
	store     service.TransactionStore
	extractor *classification.Extractor
	logger    *slog.Logger
	now       func() time.Time
	handlers  map[model.Intent]handler
	config    Config
}

// New creates a dispatcher. A nil extractor uses the default pattern library.
func New(store service.TransactionStore, extractor *classification.Extractor, config Config, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if extractor == nil {
		extractor = classification.NewExtractor(nil)
	}
	defaults := DefaultConfig()
	if config.RecentLimit <= 0 {
		config.RecentLimit = defaults.RecentLimit
	}
	if config.MaxResults <= 0 {
		config.MaxResults = defaults.MaxResults
	}
	if config.ContactLimit <= 0 {
		config.ContactLimit = defaults.ContactLimit
	}

	d := &Dispatcher{
		store:     store,
		extractor: extractor,
		logger:    logger,
		now:       time.Now,
		config:    config,
	}
	d.handlers = map[model.Intent]handler{
		model.IntentTransfer: d.handleTransfer,
		model.IntentSearch:   d.handleSearch,
		model.IntentMenu:     d.handleMenu,
		model.IntentUnknown:  d.handleUnknown,
	}
	return d
}

// Anchor returns the date relative periods are resolved against.
func (d *Dispatcher) Anchor() time.Time {
	if !d.config.AnchorDate.IsZero() {
		return d.config.AnchorDate
	}
	now := d.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Dispatch builds the envelope for a classified query. It never returns an
// error and never panics; failures produce an action_type=error envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, classified model.ClassifiedIntent, query string) (env model.ResponseEnvelope) {
	query = pattern.Normalize(query)
	classified.Entities.Person = d.extractor.Library().CanonicalName(classified.Entities.Person)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("dispatch panic: %v", r)
			d.logger.Error("Recovered from dispatch panic",
				"intent", classified.Intent,
				"panic", r)
			env = errorEnvelope(err)
		}
		metrics.Dispatched.WithLabelValues(string(env.ActionType)).Inc()
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	h, ok := d.handlers[classified.Intent]
	if !ok {
		h = d.handleUnknown
	}

	env, err := h(ctx, classified, query)
	if err != nil {
		common.LogError(d.logger, err, "Dispatch failed", common.Fields{
			"intent": classified.Intent,
			"source": classified.Source,
		})
		return errorEnvelope(err)
	}
	env.Suggestions = capSuggestions(env.Suggestions)
	return env
}

// lookupError marks a store failure so it reaches the error envelope as a
// LookupFailure whatever the store returned.
func lookupError(op string, err error) error {
	if errors.Is(err, common.ErrLookupFailed) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, common.ErrLookupFailed, err)
}

func capSuggestions(s []string) []string {
	if s == nil {
		return []string{}
	}
	if len(s) > model.MaxSuggestions {
		return s[:model.MaxSuggestions]
	}
	return s
}
