package common

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "empty defaults to info", input: "", want: slog.LevelInfo},
		{name: "upper case", input: "WARN", want: slog.LevelWarn},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "unknown", input: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogErrorWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelDebug, "json")

	LogError(logger, errors.New("boom"), "lookup failed", Fields{"query": "스타벅스"})

	out := buf.String()
	assert.Contains(t, out, `"msg":"lookup failed"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, "스타벅스")
}

func TestLogDebugRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	LogDebug(NewLogger(&buf, slog.LevelInfo, "json"), "hidden", Fields{"query": "asdkjh123"})
	assert.Empty(t, buf.String())

	LogDebug(NewLogger(&buf, slog.LevelDebug, "json"), "shown", Fields{"query": "asdkjh123"})
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"query":"asdkjh123"`)
}

func TestIsFallbackTrigger(t *testing.T) {
	assert.True(t, IsFallbackTrigger(ErrClassifierUnavailable))
	assert.True(t, IsFallbackTrigger(fmt.Errorf("bad output: %w", ErrInvalidModelOutput)))
	assert.False(t, IsFallbackTrigger(ErrLookupFailed))
}
