package llm

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers.
type Client interface {
	// Generate sends a single prompt and returns the raw text completion.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds configuration for LLM clients and the classifier.
type Config struct {
	Provider      string
	APIKey        string
	Model         string
	BaseURL       string
	Timeout       time.Duration
	CacheTTL      time.Duration
	RateLimit     int
	Temperature   float64
	MaxTokens     int
	MinConfidence float64
}

func (cfg Config) httpTimeout() time.Duration {
	if cfg.Timeout <= 0 {
		return 30 * time.Second
	}
	return cfg.Timeout
}
