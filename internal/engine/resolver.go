// Package engine resolves a query into a ClassifiedIntent using the model
// classifier first and the rule-based extractor as fallback.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/sol-search/internal/common"
	"github.com/Veraticus/sol-search/internal/metrics"
	"github.com/Veraticus/sol-search/internal/model"
)

// MergePolicy selects how a model result and a rule-based result combine.
type MergePolicy string

// Merge policies.
const (
	// FallbackOnly uses the rule-based result only when the model fails.
	FallbackOnly MergePolicy = "fallback-only"
	// PreferModel fills entities the model left empty from the rule-based result.
	PreferModel MergePolicy = "prefer-model"
	// PreferRule lets rule-based entities override the model's on conflict.
	PreferRule MergePolicy = "prefer-rule"
)

// ParseMergePolicy validates a policy name. Empty means FallbackOnly.
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch p := MergePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return FallbackOnly, nil
	case FallbackOnly, PreferModel, PreferRule:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown merge policy %q", common.ErrInvalidConfig, s)
	}
}

// Config holds configuration options for the resolver.
type Config struct {
	// AnchorDate fixes "today" for relative periods. Zero means the real date.
	AnchorDate   time.Time
	MergePolicy  MergePolicy
	ModelTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MergePolicy:  FallbackOnly,
		ModelTimeout: 5 * time.Second,
	}
}

// Resolver is the single classification entry point.
type Resolver struct {
	model  ModelClassifier
	rules  RuleClassifier
	logger *slog.Logger
	now    func() time.Time
	config Config
}

// NewResolver wires the two tiers. A nil modelClassifier disables the model tier.
func NewResolver(modelClassifier ModelClassifier, rules RuleClassifier, config Config, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MergePolicy == "" {
		config.MergePolicy = FallbackOnly
	}
	if config.ModelTimeout <= 0 {
		config.ModelTimeout = DefaultConfig().ModelTimeout
	}
	return &Resolver{
		model:  modelClassifier,
		rules:  rules,
		logger: logger,
		now:    time.Now,
		config: config,
	}
}

// Anchor returns the date relative periods are resolved against.
func (r *Resolver) Anchor() time.Time {
	if !r.config.AnchorDate.IsZero() {
		return r.config.AnchorDate
	}
	now := r.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Resolve classifies query. It always returns a usable result: any model
// failure, including timeout, falls back to the rule-based tier.
func (r *Resolver) Resolve(ctx context.Context, query string) model.ClassifiedIntent {
	query = strings.TrimSpace(query)

	result, reason := r.resolve(ctx, query)
	if reason != "" {
		metrics.FallbacksTotal.WithLabelValues(reason).Inc()
	}
	if result.Intent == model.IntentUnknown && result.Entities.IsEmpty() {
		common.LogDebug(r.logger, "Nothing recognised in query", common.Fields{
			"query":  query,
			"source": result.Source,
		})
	}
	metrics.QueriesResolved.WithLabelValues(string(result.Intent), string(result.Source)).Inc()
	return result
}

func (r *Resolver) resolve(ctx context.Context, query string) (model.ClassifiedIntent, string) {
	if r.model == nil {
		return r.rules.Classify(query), "disabled"
	}

	modelCtx, cancel := context.WithTimeout(ctx, r.config.ModelTimeout)
	defer cancel()

	result, err := r.model.Classify(modelCtx, query, r.Anchor())
	if err != nil {
		reason := fallbackReason(err)
		if reason == reasonUnexpected {
			common.LogError(r.logger, err, "Unexpected model classifier error, using rule-based fallback", common.Fields{
				"query":  query,
				"reason": reason,
			})
		} else {
			r.logger.Warn("model classifier failed, using rule-based fallback",
				"query", query,
				"reason", reason,
				"error", err)
		}
		return r.rules.Classify(query), reason
	}
	result.Source = model.SourceModel

	switch r.config.MergePolicy {
	case PreferModel, PreferRule:
		return r.merge(result, r.rules.Classify(query)), ""
	default:
		return result, ""
	}
}

// merge combines entities field by field when both tiers agree on the intent.
// The model's intent and confidence always stand.
func (r *Resolver) merge(modelResult, ruleResult model.ClassifiedIntent) model.ClassifiedIntent {
	if modelResult.Intent != ruleResult.Intent {
		return modelResult
	}

	primary, secondary := modelResult.Entities, ruleResult.Entities
	if r.config.MergePolicy == PreferRule {
		primary, secondary = secondary, primary
	}

	merged := primary.Clone()
	if merged.Person == "" {
		merged.Person = secondary.Person
	}
	if merged.Amount == nil && secondary.Amount != nil {
		merged.Amount = model.Int64(*secondary.Amount)
	}
	if merged.Merchant == "" {
		merged.Merchant = secondary.Merchant
	}
	if merged.DateRange == nil && secondary.DateRange != nil {
		dr := *secondary.DateRange
		merged.DateRange = &dr
	}
	if merged.DateExpression == "" {
		merged.DateExpression = secondary.DateExpression
	}
	if merged.TransactionType == "" || merged.TransactionType == model.TypeAll {
		if secondary.TransactionType != "" {
			merged.TransactionType = secondary.TransactionType
		}
	}
	if merged.MenuType == "" {
		merged.MenuType = secondary.MenuType
	}

	modelResult.Entities = merged.ForIntent(modelResult.Intent)
	return modelResult
}

const reasonUnexpected = "unexpected"

// fallbackReason labels a model failure. Errors outside the classifier's
// contract are reported as unexpected.
func fallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case !common.IsFallbackTrigger(err):
		return reasonUnexpected
	case errors.Is(err, common.ErrInvalidModelOutput):
		return "invalid_output"
	default:
		return "unavailable"
	}
}
