package engine

import (
	"context"
	"time"

	"github.com/Veraticus/sol-search/internal/model"
)

// ModelClassifier is the model-backed tier. It makes at most one attempt per
// call and reports any failure as an error.
type ModelClassifier interface {
	Classify(ctx context.Context, query string, anchor time.Time) (model.ClassifiedIntent, error)
}

// RuleClassifier is the deterministic tier. It never fails.
type RuleClassifier interface {
	Classify(query string) model.ClassifiedIntent
}
