// Package storage provides the transaction stores consulted by the dispatcher.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/sol-search/internal/model"
)

const clockLayout = "15:04"

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidDateRange   = errors.New("start date must not be after end date")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateDateRange checks that the bounds are set and ordered.
func validateDateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: missing bound", ErrInvalidDateRange)
	}
	if dayOf(end).Before(dayOf(start)) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, start.Format(model.DateLayout), end.Format(model.DateLayout))
	}
	return nil
}

// validateFilterType accepts the empty filter, TypeAll and the record types.
func validateFilterType(t model.TransactionType) error {
	if t != "" && !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	seen := make(map[string]bool, len(transactions))
	for i, txn := range transactions {
		if err := validateTransaction(&txn); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
		if seen[txn.ID] {
			return fmt.Errorf("transaction at index %d: %w: duplicate ID %s", i, ErrInvalidTransaction, txn.ID)
		}
		seen[txn.ID] = true
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if txn.Description == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidTransaction)
	}
	if txn.Time != "" {
		clock, err := normalizeClock(txn.Time)
		if err != nil || clock != txn.Time {
			return fmt.Errorf("%w: time %q of %s is not HH:MM", ErrInvalidTransaction, txn.Time, txn.ID)
		}
	}
	switch txn.Type {
	case model.TypeDeposit:
		if txn.Amount < 0 {
			return fmt.Errorf("%w: deposit %s has negative amount", ErrInvalidTransaction, txn.ID)
		}
	case model.TypeWithdrawal:
		if txn.Amount > 0 {
			return fmt.Errorf("%w: withdrawal %s has positive amount", ErrInvalidTransaction, txn.ID)
		}
	default:
		return fmt.Errorf("%w: type %q", ErrInvalidTransaction, txn.Type)
	}
	if txn.Counterparty != nil && txn.Type != model.TypeWithdrawal {
		return fmt.Errorf("%w: counterparty on non-withdrawal %s", ErrInvalidTransaction, txn.ID)
	}
	return nil
}

// normalizeClock parses a time of day and returns it zero padded, so that
// string order matches chronological order.
func normalizeClock(s string) (string, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return t.Format(clockLayout), nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
