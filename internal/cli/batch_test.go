package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/sol-search/internal/app"
	"github.com/Veraticus/sol-search/internal/model"
)

type stubHandler struct {
	actions map[string]model.ActionType
	cancel  context.CancelFunc
	calls   int
}

func (h *stubHandler) Handle(_ context.Context, query string) app.Result {
	h.calls++
	if h.cancel != nil && h.calls == 1 {
		h.cancel()
	}
	action, ok := h.actions[query]
	if !ok {
		action = model.ActionUnknown
	}
	return app.Result{
		Query:      query,
		Classified: model.ClassifiedIntent{Intent: model.IntentUnknown, Source: model.SourceFallback},
		Response:   model.ResponseEnvelope{ActionType: action, Suggestions: []string{}},
	}
}

func TestRunBatch(t *testing.T) {
	h := &stubHandler{actions: map[string]model.ActionType{
		"김네모 10만원 보내줘": model.ActionTransfer,
		"스타벅스 거래내역":    model.ActionSearch,
	}}
	queries := []string{"김네모 10만원 보내줘", "스타벅스 거래내역", "안녕"}

	var out, progress bytes.Buffer
	stats, err := RunBatch(context.Background(), h, queries, &out, &progress)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 3, stats.Fallbacks)
	assert.Equal(t, 1, stats.ByAction[model.ActionTransfer])
	assert.Equal(t, 1, stats.ByAction[model.ActionSearch])
	assert.Equal(t, 1, stats.ByAction[model.ActionUnknown])
	assert.NotEmpty(t, progress.String())

	var got []string
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var line struct {
			Query    string `json:"query"`
			Response struct {
				ActionType string `json:"action_type"`
			} `json:"response"`
		}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		got = append(got, line.Query+"="+line.Response.ActionType)
	}
	assert.Equal(t, []string{"김네모 10만원 보내줘=transfer", "스타벅스 거래내역=search", "안녕=unknown"}, got)

	summary := RenderBatchStats(stats)
	assert.Contains(t, summary, "처리 3건")
	assert.Contains(t, summary, "transfer")
}

func TestRunBatch_NoProgressWriter(t *testing.T) {
	stats, err := RunBatch(context.Background(), &stubHandler{}, []string{"a", "b"}, io.Discard, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)
}

func TestRunBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := &stubHandler{cancel: cancel}

	stats, err := RunBatch(ctx, h, []string{"a", "b", "c"}, io.Discard, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 1, h.calls)
}
