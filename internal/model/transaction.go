package model

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// TransactionType is the direction of money for a record or a search filter.
type TransactionType string

// Transaction type constants.
const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeAll        TransactionType = "all"
)

// Valid reports whether the type is one of the known values.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeAll:
		return true
	}
	return false
}

// Matches reports whether a record of type rt passes this filter.
// The empty filter and TypeAll match everything.
func (t TransactionType) Matches(rt TransactionType) bool {
	return t == "" || t == TypeAll || t == rt
}

// Counterparty identifies the other side of a transfer.
type Counterparty struct {
	Name    string `json:"name" yaml:"name"`
	Account string `json:"account" yaml:"account"`
	Bank    string `json:"bank" yaml:"bank"`
}

// Transaction is a single account record. Records are immutable once seeded.
type Transaction struct {
	Date         time.Time       `json:"-" yaml:"-"`
	Counterparty *Counterparty   `json:"counterparty,omitempty" yaml:"counterparty,omitempty"`
	ID           string          `json:"id" yaml:"id"`
	Time         string          `json:"time" yaml:"time"`
	Description  string          `json:"description" yaml:"description"` // Merchant or recipient name
	Category     string          `json:"category" yaml:"category"`
	Memo         string          `json:"memo,omitempty" yaml:"memo,omitempty"`
	Type         TransactionType `json:"type" yaml:"type"`
	Hash         string          `json:"-" yaml:"-"`
	Amount       int64           `json:"amount" yaml:"amount"` // Negative for outflows
	BalanceAfter int64           `json:"balance" yaml:"balance"`
}

// DateString returns the record date in ISO form.
func (t Transaction) DateString() string {
	return t.Date.Format(DateLayout)
}

// IsTransfer reports whether the record is an outgoing transfer to a person.
func (t Transaction) IsTransfer() bool {
	return t.Type == TypeWithdrawal && t.Counterparty != nil && t.Counterparty.Name != ""
}

// Clone returns a deep copy so callers cannot reach shared state.
func (t Transaction) Clone() Transaction {
	c := t
	if t.Counterparty != nil {
		cp := *t.Counterparty
		c.Counterparty = &cp
	}
	return c
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%d:%s:%s",
		t.Date.Format(DateLayout),
		t.Time,
		t.Amount,
		t.Description,
		t.ID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// MarshalJSON renders the date as an ISO calendar date.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type alias Transaction
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias: alias(t), Date: t.DateString()})
}

// SortByDateDesc orders records newest date first. Records on the same date
// keep their original relative order.
func SortByDateDesc(txns []Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.After(txns[j].Date)
	})
}

// SortByDateTimeDesc orders records newest first by date and then time of day.
func SortByDateTimeDesc(txns []Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.After(txns[j].Date)
		}
		return txns[i].Time > txns[j].Time
	})
}

// ContainsName reports whether the record description or counterparty mentions name.
func (t Transaction) ContainsName(name string) bool {
	if name == "" {
		return false
	}
	if strings.Contains(t.Description, name) {
		return true
	}
	return t.Counterparty != nil && strings.Contains(t.Counterparty.Name, name)
}
