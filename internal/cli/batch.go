package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/sol-search/internal/app"
	"github.com/Veraticus/sol-search/internal/model"
)

// QueryHandler answers a single query.
type QueryHandler interface {
	Handle(ctx context.Context, query string) app.Result
}

// BatchStats counts envelopes by action type.
type BatchStats struct {
	ByAction  map[model.ActionType]int
	Processed int
	Fallbacks int
}

// RunBatch answers each query in order and writes one JSON result per line to
// out. Progress is drawn on progress unless it is nil. It stops early when
// ctx is cancelled and returns the partial stats.
func RunBatch(ctx context.Context, h QueryHandler, queries []string, out, progress io.Writer) (BatchStats, error) {
	stats := BatchStats{ByAction: make(map[model.ActionType]int)}

	var bar *progressbar.ProgressBar
	if progress != nil {
		bar = newProgressBar(len(queries), progress)
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)

	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("batch interrupted after %d of %d queries: %w", stats.Processed, len(queries), err)
		}

		res := h.Handle(ctx, q)
		if err := enc.Encode(res); err != nil {
			return stats, fmt.Errorf("failed to write result: %w", err)
		}

		stats.Processed++
		stats.ByAction[res.Response.ActionType]++
		if res.Classified.Source == model.SourceFallback {
			stats.Fallbacks++
		}
		if bar != nil {
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
	}
	return stats, nil
}

func newProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Resolving queries...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// RenderBatchStats summarizes a batch run.
func RenderBatchStats(s BatchStats) string {
	lines := []string{fmt.Sprintf("처리 %d건 · 규칙 기반 %d건", s.Processed, s.Fallbacks)}
	for _, a := range []model.ActionType{model.ActionTransfer, model.ActionSearch, model.ActionMenu, model.ActionUnknown, model.ActionError} {
		if n := s.ByAction[a]; n > 0 {
			lines = append(lines, fmt.Sprintf("%-9s %d", a, n))
		}
	}
	return RenderBox("배치 결과", strings.Join(lines, "\n"))
}
