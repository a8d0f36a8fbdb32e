package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/sol-search/internal/config"
	"github.com/Veraticus/sol-search/internal/model"
	"github.com/Veraticus/sol-search/internal/storage"
)

func loadConfig(t *testing.T, overrides map[string]any) *config.Config {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")

	v := viper.New()
	config.SetDefaults(v)
	v.Set("nlp.anchor_date", "2025-08-10")
	for k, val := range overrides {
		v.Set(k, val)
	}
	cfg, err := config.Load(v)
	require.NoError(t, err)
	return cfg
}

func newTestApp(t *testing.T, overrides map[string]any) *App {
	t.Helper()
	a, err := New(context.Background(), loadConfig(t, overrides), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNew_RuleOnlyPipeline(t *testing.T) {
	a := newTestApp(t, nil)
	assert.False(t, a.ModelEnabled())

	n, err := a.Store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(storage.DefaultSeed()), n)

	res := a.Pipeline.Handle(context.Background(), "김네모 10만원 보내줘")
	assert.Equal(t, "김네모 10만원 보내줘", res.Query)
	assert.Equal(t, model.IntentTransfer, res.Classified.Intent)
	assert.Equal(t, model.SourceFallback, res.Classified.Source)
	assert.Equal(t, model.ActionTransfer, res.Response.ActionType)
	assert.True(t, res.Response.Success)
}

func TestNew_ModelFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`, http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	a := newTestApp(t, map[string]any{
		"llm.api_key":  "test-key",
		"llm.base_url": srv.URL,
	})
	require.True(t, a.ModelEnabled())

	res := a.Pipeline.Handle(context.Background(), "스타벅스 거래내역")
	assert.Equal(t, model.SourceFallback, res.Classified.Source)
	assert.Equal(t, model.ActionSearch, res.Response.ActionType)
}

func TestNew_ModelDisabledByConfig(t *testing.T) {
	a := newTestApp(t, map[string]any{
		"llm.api_key": "test-key",
		"llm.enabled": false,
	})
	assert.False(t, a.ModelEnabled())
}

func TestOpenStorage_SQLiteWithSeedFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tx.db")
	a := newTestApp(t, map[string]any{
		"storage.driver":    "sqlite",
		"storage.path":      dbPath,
		"storage.seed_file": filepath.Join("..", "storage", "testdata", "seed.yaml"),
	})

	n, err := a.Store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	res := a.Pipeline.Handle(context.Background(), "교촌치킨 거래내역")
	require.Equal(t, model.ActionSearch, res.Response.ActionType)
	screen, ok := res.Response.ScreenData.(model.SearchScreen)
	require.True(t, ok)
	assert.Equal(t, 1, screen.Count)
}

func TestOpenStorage_MissingSeedFile(t *testing.T) {
	cfg := loadConfig(t, map[string]any{"storage.seed_file": filepath.Join(t.TempDir(), "missing.yaml")})
	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}
