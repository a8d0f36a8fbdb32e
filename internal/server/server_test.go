package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/sol-search/internal/app"
	"github.com/Veraticus/sol-search/internal/classification"
	"github.com/Veraticus/sol-search/internal/dispatch"
	"github.com/Veraticus/sol-search/internal/engine"
	"github.com/Veraticus/sol-search/internal/model"
	"github.com/Veraticus/sol-search/internal/service"
	"github.com/Veraticus/sol-search/internal/storage"
)

type recordingHandler struct {
	queries []string
	mu      sync.Mutex
}

func (h *recordingHandler) Handle(_ context.Context, query string) app.Result {
	h.mu.Lock()
	h.queries = append(h.queries, query)
	h.mu.Unlock()
	return app.Result{
		Query:      query,
		Classified: model.ClassifiedIntent{Intent: model.IntentUnknown, Source: model.SourceFallback},
		Response: model.ResponseEnvelope{
			ActionType:  model.ActionUnknown,
			Message:     "stub",
			Suggestions: []string{},
		},
	}
}

type failingStore struct {
	service.Storage
}

func (failingStore) Count(context.Context) (int, error) {
	return 0, assert.AnError
}

func newPipelineServer(t *testing.T) *Server {
	t.Helper()
	store, err := storage.NewMemoryStore(storage.DefaultSeed()...)
	require.NoError(t, err)

	extractor := classification.NewExtractor(nil)
	anchor := time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC)
	resolver := engine.NewResolver(nil, extractor, engine.Config{AnchorDate: anchor}, nil)
	dispatcher := dispatch.New(store, extractor, dispatch.Config{AnchorDate: anchor}, nil)

	return New(app.NewPipeline(resolver, dispatcher, nil), store, Config{}, nil)
}

func postSearch(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSearch_ReturnsEnvelope(t *testing.T) {
	srv := newPipelineServer(t)

	rec := postSearch(t, srv, `{"query":"김네모 10만원 보내줘"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "transfer", body["action_type"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "/transfer", body["redirect_target"])

	screen, ok := body["screen_data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "김네모", screen["recipient_name"])
	assert.InDelta(t, 100000, screen["amount"], 0)
}

func TestSearch_BadRequests(t *testing.T) {
	handler := &recordingHandler{}
	srv := New(handler, nil, Config{}, nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"query":`},
		{name: "empty query", body: `{"query":"   "}`},
		{name: "missing query", body: `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postSearch(t, srv, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
	assert.Empty(t, handler.queries)
}

func TestSearch_TrimsQuery(t *testing.T) {
	handler := &recordingHandler{}
	srv := New(handler, nil, Config{}, nil)

	rec := postSearch(t, srv, `{"query":"  환율계산기  "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"환율계산기"}, handler.queries)
}

func TestSearch_MethodNotAllowed(t *testing.T) {
	srv := New(&recordingHandler{}, nil, Config{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Run("with store", func(t *testing.T) {
		srv := newPipelineServer(t)
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body healthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, len(storage.DefaultSeed()), body.Transactions)
	})

	t.Run("store failure", func(t *testing.T) {
		srv := New(&recordingHandler{}, failingStore{}, Config{}, nil)
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRequestID(t *testing.T) {
	srv := New(&recordingHandler{}, nil, Config{}, nil)

	t.Run("generated", func(t *testing.T) {
		rec := postSearch(t, srv, `{"query":"거래내역"}`)
		_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
		assert.NoError(t, err)
	})

	t.Run("propagated", func(t *testing.T) {
		id := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, id)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
	})

	t.Run("invalid replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, "not-a-uuid")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newPipelineServer(t)
	_ = postSearch(t, srv, `{"query":"스타벅스 거래내역"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "solsearch_http_request_duration_seconds")
	assert.Contains(t, body, "solsearch_dispatched_total")
	assert.Contains(t, body, `route="/api/search"`)
}
