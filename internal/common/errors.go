// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// Store errors.
	ErrNotFound     = errors.New("not found")
	ErrLookupFailed = errors.New("transaction lookup failed")

	// Classification errors.
	ErrClassifierUnavailable = errors.New("classifier unavailable")
	ErrInvalidModelOutput    = errors.New("invalid model output")
	ErrDateParse             = errors.New("date parse failed")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// IsFallbackTrigger reports whether err should send a query down the
// rule-based path instead of failing the request.
func IsFallbackTrigger(err error) bool {
	return errors.Is(err, ErrClassifierUnavailable) || errors.Is(err, ErrInvalidModelOutput)
}
