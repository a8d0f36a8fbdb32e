package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/sol-search/internal/common"
	"github.com/Veraticus/sol-search/internal/model"
)

// MemoryStore keeps records in insertion order behind a read-write lock.
type MemoryStore struct {
	records []model.Transaction
	mu      sync.RWMutex
}

// NewMemoryStore creates a store holding copies of txns.
func NewMemoryStore(txns ...model.Transaction) (*MemoryStore, error) {
	s := &MemoryStore{}
	if len(txns) == 0 {
		return s, nil
	}
	if err := s.SaveTransactions(context.Background(), txns); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveTransactions appends records. Records whose ID is already stored are ignored.
func (s *MemoryStore) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]bool, len(s.records))
	for _, txn := range s.records {
		existing[txn.ID] = true
	}
	for _, txn := range transactions {
		if existing[txn.ID] {
			continue
		}
		c := txn.Clone()
		if c.Hash == "" {
			c.Hash = c.GenerateHash()
		}
		s.records = append(s.records, c)
	}
	return nil
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// ByMerchant returns records whose description contains substr.
func (s *MemoryStore) ByMerchant(ctx context.Context, substr string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(substr, "merchant"); err != nil {
		return nil, err
	}
	needle := strings.ToLower(substr)
	return s.filter(func(t model.Transaction) bool {
		return strings.Contains(strings.ToLower(t.Description), needle)
	}), nil
}

// ByRecipient returns withdrawals whose description or counterparty contains name.
func (s *MemoryStore) ByRecipient(ctx context.Context, name string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return s.filter(func(t model.Transaction) bool {
		return t.Type == model.TypeWithdrawal && t.ContainsName(name)
	}), nil
}

// ByDateRange returns records within the inclusive calendar bounds.
func (s *MemoryStore) ByDateRange(ctx context.Context, start, end time.Time, t model.TransactionType) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}
	if err := validateFilterType(t); err != nil {
		return nil, err
	}
	from, to := dayOf(start), dayOf(end)
	return s.filter(func(r model.Transaction) bool {
		d := dayOf(r.Date)
		return !d.Before(from) && !d.After(to) && t.Matches(r.Type)
	}), nil
}

// ByType returns records of the given type.
func (s *MemoryStore) ByType(ctx context.Context, t model.TransactionType) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilterType(t); err != nil {
		return nil, err
	}
	return s.filter(func(r model.Transaction) bool {
		return t.Matches(r.Type)
	}), nil
}

// Recent returns the newest limit records.
func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	all := s.filter(func(model.Transaction) bool { return true })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// LatestContactByName returns the newest transfer recipient matching name.
func (s *MemoryStore) LatestContactByName(ctx context.Context, name string) (model.Contact, error) {
	if err := validateContext(ctx); err != nil {
		return model.Contact{}, err
	}
	if err := validateString(name, "name"); err != nil {
		return model.Contact{}, err
	}
	transfers := s.filter(func(t model.Transaction) bool {
		return t.IsTransfer() && t.ContainsName(name)
	})
	model.SortByDateTimeDesc(transfers)
	contacts := model.ContactsFromTransfers(transfers, 1)
	if len(contacts) == 0 {
		return model.Contact{}, fmt.Errorf("no transfer to %s: %w", name, common.ErrNotFound)
	}
	return contacts[0], nil
}

// RecentContacts returns de-duplicated recipients from the newest transfers.
func (s *MemoryStore) RecentContacts(ctx context.Context, limit int) ([]model.Contact, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	transfers := s.filter(model.Transaction.IsTransfer)
	model.SortByDateTimeDesc(transfers)
	return model.ContactsFromTransfers(transfers, limit), nil
}

// Migrate is a no-op; the memory store has no schema.
func (s *MemoryStore) Migrate(ctx context.Context) error {
	return validateContext(ctx)
}

// Close releases nothing.
func (s *MemoryStore) Close() error {
	return nil
}

// filter returns sorted copies of the records matching keep.
func (s *MemoryStore) filter(keep func(model.Transaction) bool) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Transaction, 0, len(s.records))
	for _, txn := range s.records {
		if keep(txn) {
			out = append(out, txn.Clone())
		}
	}
	model.SortByDateDesc(out)
	return out
}
