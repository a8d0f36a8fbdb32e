package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/sol-search/internal/common"
	"github.com/Veraticus/sol-search/internal/model"
)

var testAnchor = time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC)

// mockClient returns canned responses and counts calls.
type mockClient struct {
	err      error
	response string
	calls    int
	mu       sync.Mutex
}

func (m *mockClient) Generate(_ context.Context, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newTestClassifier(t *testing.T, client Client, cfg Config) *Classifier {
	t.Helper()
	c := NewClassifierWithClient(client, cfg, nil)
	t.Cleanup(c.Close)
	return c
}

func TestClassifierParsesModelOutput(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     model.ClassifiedIntent
	}{
		{
			name:     "transfer",
			response: `{"intent":"transfer","entities":{"person":"김네모","amount":100000},"confidence":0.95,"reasoning":"이름과 금액"}`,
			want: model.ClassifiedIntent{
				Intent:     model.IntentTransfer,
				Entities:   model.Entities{Person: "김네모", Amount: model.Int64(100_000)},
				Confidence: 0.95,
				Reasoning:  "이름과 금액",
				Source:     model.SourceModel,
			},
		},
		{
			name:     "search with date range in markdown",
			response: "```json\n" + `{"intent":"search","entities":{"merchant":"스타벅스","date_range":{"start_date":"2025-07-01","end_date":"2025-07-31","period_type":"month","description":"2025년 7월"},"transaction_type":"출금","person":null},"confidence":0.9}` + "\n```",
			want: model.ClassifiedIntent{
				Intent: model.IntentSearch,
				Entities: model.Entities{
					Merchant: "스타벅스",
					DateRange: &model.DateRange{
						StartDate:   "2025-07-01",
						EndDate:     "2025-07-31",
						PeriodType:  model.PeriodMonth,
						Description: "2025년 7월",
					},
					TransactionType: model.TypeWithdrawal,
				},
				Confidence: 0.9,
				Source:     model.SourceModel,
			},
		},
		{
			name:     "menu",
			response: `{"intent":"menu","entities":{"menu_type":"exchangeCalculator"},"confidence":0.85,"reasoning":""}`,
			want: model.ClassifiedIntent{
				Intent:     model.IntentMenu,
				Entities:   model.Entities{MenuType: model.MenuExchangeCalculator},
				Confidence: 0.85,
				Source:     model.SourceModel,
			},
		},
		{
			name:     "entities outside the intent are dropped",
			response: `{"intent":"unknown","entities":{"person":"김네모"},"confidence":0.3}`,
			want: model.ClassifiedIntent{
				Intent:     model.IntentUnknown,
				Confidence: 0.3,
				Source:     model.SourceModel,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClassifier(t, &mockClient{response: tt.response}, Config{})

			got, err := c.Classify(context.Background(), tt.name, testAnchor)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifierRejectsInvalidOutput(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "not json", response: "죄송합니다"},
		{name: "unknown intent", response: `{"intent":"pay","entities":{},"confidence":0.9}`},
		{name: "confidence out of range", response: `{"intent":"unknown","entities":{},"confidence":1.5}`},
		{name: "missing confidence", response: `{"intent":"unknown","entities":{}}`},
		{name: "negative amount", response: `{"intent":"transfer","entities":{"person":"김네모","amount":-5},"confidence":0.9}`},
		{name: "fractional amount", response: `{"intent":"transfer","entities":{"amount":10.5},"confidence":0.9}`},
		{name: "menu outside closed set", response: `{"intent":"menu","entities":{"menu_type":"stocks"},"confidence":0.9}`},
		{name: "menu without menu type", response: `{"intent":"menu","entities":{},"confidence":0.9}`},
		{name: "bad date format", response: `{"intent":"search","entities":{"date_range":{"start_date":"2025/07/01","end_date":"2025-07-31"}},"confidence":0.9}`},
		{name: "start after end", response: `{"intent":"search","entities":{"date_range":{"start_date":"2025-08-01","end_date":"2025-07-01"}},"confidence":0.9}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClassifier(t, &mockClient{response: tt.response}, Config{})

			_, err := c.Classify(context.Background(), "q", testAnchor)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidModelOutput)
			assert.True(t, common.IsFallbackTrigger(err))
		})
	}
}

func TestClassifierClientFailure(t *testing.T) {
	client := &mockClient{err: errors.New("connection refused")}
	c := newTestClassifier(t, client, Config{})

	_, err := c.Classify(context.Background(), "q", testAnchor)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrClassifierUnavailable)
	assert.Equal(t, 1, client.callCount(), "a failed call must not be retried")
}

func TestClassifierCachesByQueryAndAnchor(t *testing.T) {
	client := &mockClient{response: `{"intent":"transfer","entities":{"person":"김네모","amount":100000},"confidence":0.9}`}
	c := newTestClassifier(t, client, Config{})

	first, err := c.Classify(context.Background(), "김네모 10만원 보내줘", testAnchor)
	require.NoError(t, err)

	*first.Entities.Amount = 1
	second, err := c.Classify(context.Background(), "김네모 10만원 보내줘", testAnchor)
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), *second.Entities.Amount, "cached results must be copies")
	assert.Equal(t, 1, client.callCount())

	_, err = c.Classify(context.Background(), "김네모 10만원 보내줘", testAnchor.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, client.callCount(), "a different anchor is a different cache key")
}

func TestClassifierMinConfidence(t *testing.T) {
	client := &mockClient{response: `{"intent":"unknown","entities":{},"confidence":0.4}`}
	c := newTestClassifier(t, client, Config{MinConfidence: 0.7})

	_, err := c.Classify(context.Background(), "q", testAnchor)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrClassifierUnavailable)
}

func TestClassifierCircuitBreakerOpens(t *testing.T) {
	client := &mockClient{err: errors.New("503")}
	c := newTestClassifier(t, client, Config{})

	for i := 0; i < 5; i++ {
		_, err := c.Classify(context.Background(), "q", testAnchor)
		require.Error(t, err)
	}
	require.Equal(t, 5, client.callCount())

	_, err := c.Classify(context.Background(), "q", testAnchor)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrClassifierUnavailable)
	assert.Equal(t, 5, client.callCount(), "open breaker must short-circuit the client")
}

func TestClassifierCanceledContext(t *testing.T) {
	client := &mockClient{response: `{"intent":"unknown","entities":{},"confidence":0.4}`}
	c := newTestClassifier(t, client, Config{RateLimit: 1})

	// Drain the single token so the next call has to wait.
	require.True(t, c.rateLimiter.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Classify(ctx, "q", testAnchor)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrClassifierUnavailable)
	assert.Equal(t, 0, client.callCount())
}
