// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"time"
)

// Intent is the high-level action category a query maps to.
type Intent string

// Intent constants.
const (
	IntentTransfer Intent = "transfer"
	IntentSearch   Intent = "search"
	IntentMenu     Intent = "menu"
	IntentUnknown  Intent = "unknown"
)

// Valid reports whether the intent is one of the known values.
func (i Intent) Valid() bool {
	switch i {
	case IntentTransfer, IntentSearch, IntentMenu, IntentUnknown:
		return true
	}
	return false
}

// ClassificationSource records which tier produced a classification.
type ClassificationSource string

const (
	// SourceModel indicates the language-model classifier produced the result.
	SourceModel ClassificationSource = "model"
	// SourceFallback indicates the rule-based extractor produced the result.
	SourceFallback ClassificationSource = "fallback"
)

// FallbackReasoning is the reasoning attached to every rule-based result.
const FallbackReasoning = "rule-based fallback"

// PeriodType describes how a date range was derived.
type PeriodType string

// Period type constants.
const (
	PeriodMonth  PeriodType = "month"
	PeriodWeek   PeriodType = "week"
	PeriodRecent PeriodType = "recent"
	PeriodCustom PeriodType = "custom"
)

// DateLayout is the ISO calendar date layout used for date ranges and records.
const DateLayout = "2006-01-02"

// DateRange is a resolved, inclusive calendar period.
type DateRange struct {
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	PeriodType  PeriodType `json:"period_type,omitempty"`
	Description string     `json:"description,omitempty"`
}

// Bounds parses the range into times and checks start <= end.
func (r DateRange) Bounds() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date %q: %w", r.StartDate, err)
	}
	end, err := time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date %q: %w", r.EndDate, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date %s is before start_date %s", r.EndDate, r.StartDate)
	}
	return start, end, nil
}

// NewDateRange builds a range from two dates.
func NewDateRange(start, end time.Time, periodType PeriodType, description string) DateRange {
	return DateRange{
		StartDate:   start.Format(DateLayout),
		EndDate:     end.Format(DateLayout),
		PeriodType:  periodType,
		Description: description,
	}
}

// Entities holds the structured values extracted from a query.
// Which fields may be set depends on the intent.
type Entities struct {
	Amount          *int64          `json:"amount,omitempty"`
	DateRange       *DateRange      `json:"date_range,omitempty"`
	Person          string          `json:"person,omitempty"`
	Merchant        string          `json:"merchant,omitempty"`
	DateExpression  string          `json:"date_expression,omitempty"`
	TransactionType TransactionType `json:"transaction_type,omitempty"`
	// MenuType may be empty on a menu intent when the rule-based tier
	// matched only an extra menu keyword such as 비밀번호 or 한도.
	MenuType MenuType `json:"menu_type,omitempty"`
}

// IsEmpty reports whether no entity is set.
func (e Entities) IsEmpty() bool {
	return e == Entities{}
}

// ForIntent returns a copy that keeps only the fields allowed for the intent.
func (e Entities) ForIntent(intent Intent) Entities {
	switch intent {
	case IntentTransfer:
		return Entities{Person: e.Person, Amount: e.Amount}
	case IntentSearch:
		return Entities{
			Person:          e.Person,
			Merchant:        e.Merchant,
			DateRange:       e.DateRange,
			DateExpression:  e.DateExpression,
			TransactionType: e.TransactionType,
		}
	case IntentMenu:
		return Entities{MenuType: e.MenuType}
	default:
		return Entities{}
	}
}

// ClassifiedIntent is the output of classification.
type ClassifiedIntent struct {
	Intent     Intent               `json:"intent"`
	Reasoning  string               `json:"reasoning"`
	Source     ClassificationSource `json:"source"`
	Entities   Entities             `json:"entities"`
	Confidence float64              `json:"confidence"`
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 {
	return &v
}

// Clone returns a deep copy of the entities.
func (e Entities) Clone() Entities {
	c := e
	if e.Amount != nil {
		c.Amount = Int64(*e.Amount)
	}
	if e.DateRange != nil {
		dr := *e.DateRange
		c.DateRange = &dr
	}
	return c
}

// Clone returns a deep copy of the classification.
func (c ClassifiedIntent) Clone() ClassifiedIntent {
	out := c
	out.Entities = c.Entities.Clone()
	return out
}
