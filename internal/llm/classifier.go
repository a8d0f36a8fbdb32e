package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Veraticus/sol-search/internal/common"
	"github.com/Veraticus/sol-search/internal/metrics"
	"github.com/Veraticus/sol-search/internal/model"
)

// Classifier asks a language model for a ClassifiedIntent. Every call makes
// at most one model request; failures are returned, never retried.
type Classifier struct {
	client        Client
	cache         *resultCache
	logger        *slog.Logger
	rateLimiter   *rateLimiter
	breaker       *gobreaker.CircuitBreaker
	minConfidence float64
}

// NewClassifier creates a new LLM-based classifier.
func NewClassifier(cfg Config, logger *slog.Logger) (*Classifier, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewClassifierWithClient(client, cfg, logger), nil
}

// NewClassifierWithClient wires a classifier around an existing client.
func NewClassifierWithClient(client Client, cfg Config, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "model-classifier",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
	})

	return &Classifier{
		client:        client,
		cache:         newResultCache(cfg.CacheTTL),
		logger:        logger,
		rateLimiter:   newRateLimiter(cfg.RateLimit),
		breaker:       breaker,
		minConfidence: cfg.MinConfidence,
	}
}

// Classify returns the model's classification of query with relative periods
// resolved against anchor. Errors wrap common.ErrClassifierUnavailable or
// common.ErrInvalidModelOutput.
func (c *Classifier) Classify(ctx context.Context, query string, anchor time.Time) (model.ClassifiedIntent, error) {
	key := cacheKey(query, anchor)
	if cached, found := c.cache.get(key); found {
		metrics.ModelRequests.WithLabelValues("cache_hit").Inc()
		c.logger.Debug("cache hit for query", "query", query)
		return cached, nil
	}

	if err := c.rateLimiter.wait(ctx); err != nil {
		metrics.ModelRequests.WithLabelValues("rate_limited").Inc()
		return model.ClassifiedIntent{}, fmt.Errorf("%w: %w", common.ErrClassifierUnavailable, err)
	}

	start := time.Now()
	raw, err := c.breaker.Execute(func() (interface{}, error) {
		return c.client.Generate(ctx, buildPrompt(query, anchor))
	})
	metrics.ModelLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ModelRequests.WithLabelValues("error").Inc()
		return model.ClassifiedIntent{}, fmt.Errorf("%w: %w", common.ErrClassifierUnavailable, err)
	}

	text, _ := raw.(string)
	result, err := parseOutput(text)
	if err != nil {
		metrics.ModelRequests.WithLabelValues("invalid").Inc()
		c.logger.Debug("model output rejected", "query", query, "error", err)
		return model.ClassifiedIntent{}, err
	}

	if result.Confidence < c.minConfidence {
		metrics.ModelRequests.WithLabelValues("low_confidence").Inc()
		return model.ClassifiedIntent{}, fmt.Errorf("%w: confidence %.2f below threshold %.2f",
			common.ErrClassifierUnavailable, result.Confidence, c.minConfidence)
	}

	c.cache.set(key, result)
	metrics.ModelRequests.WithLabelValues("success").Inc()

	c.logger.Debug("query classified by model",
		"query", query,
		"intent", result.Intent,
		"confidence", result.Confidence)

	return result, nil
}

// Close releases the cache cleanup goroutine.
func (c *Classifier) Close() {
	c.cache.Close()
}

type modelOutput struct {
	Intent     model.Intent   `json:"intent"`
	Reasoning  string         `json:"reasoning"`
	Entities   model.Entities `json:"entities"`
	Confidence float64        `json:"confidence"`
}

// parseOutput decodes, schema-validates and semantically checks a raw completion.
func parseOutput(text string) (model.ClassifiedIntent, error) {
	content := cleanMarkdownWrapper(text)

	var doc map[string]any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return model.ClassifiedIntent{}, fmt.Errorf("%w: failed to parse JSON response: %w", common.ErrInvalidModelOutput, err)
	}

	normalizeOutput(doc)
	if err := validateOutput(doc); err != nil {
		return model.ClassifiedIntent{}, err
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return model.ClassifiedIntent{}, fmt.Errorf("%w: %w", common.ErrInvalidModelOutput, err)
	}

	var out modelOutput
	if err := json.Unmarshal(normalized, &out); err != nil {
		return model.ClassifiedIntent{}, fmt.Errorf("%w: %w", common.ErrInvalidModelOutput, err)
	}

	entities := out.Entities.ForIntent(out.Intent)
	if entities.DateRange != nil {
		if _, _, err := entities.DateRange.Bounds(); err != nil {
			return model.ClassifiedIntent{}, fmt.Errorf("%w: %w", common.ErrInvalidModelOutput, err)
		}
	}
	if out.Intent == model.IntentMenu && !entities.MenuType.Valid() {
		return model.ClassifiedIntent{}, fmt.Errorf("%w: menu intent without menu_type", common.ErrInvalidModelOutput)
	}

	return model.ClassifiedIntent{
		Intent:     out.Intent,
		Entities:   entities,
		Confidence: out.Confidence,
		Reasoning:  out.Reasoning,
		Source:     model.SourceModel,
	}, nil
}
