// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/sol-search/internal/model"
)

// TransactionStore is the read side consulted by the action dispatcher.
// Every method returns copies ordered newest date first; records sharing a
// date keep their insertion order.
type TransactionStore interface {
	// ByMerchant returns records whose description contains substr, case-insensitively.
	ByMerchant(ctx context.Context, substr string) ([]model.Transaction, error)
	// ByRecipient returns outgoing records addressed to name.
	ByRecipient(ctx context.Context, name string) ([]model.Transaction, error)
	// ByDateRange returns records dated within [start, end], both inclusive,
	// restricted to t unless t is empty or TypeAll.
	ByDateRange(ctx context.Context, start, end time.Time, t model.TransactionType) ([]model.Transaction, error)
	ByType(ctx context.Context, t model.TransactionType) ([]model.Transaction, error)
	// Recent returns at most limit records. A non-positive limit returns all.
	Recent(ctx context.Context, limit int) ([]model.Transaction, error)
	// LatestContactByName returns the newest transfer recipient matching name
	// by date and time. It returns common.ErrNotFound when there is none.
	LatestContactByName(ctx context.Context, name string) (model.Contact, error)
	// RecentContacts returns de-duplicated transfer recipients, newest first.
	RecentContacts(ctx context.Context, limit int) ([]model.Contact, error)
}

// Storage is a TransactionStore that can be provisioned and seeded.
type Storage interface {
	TransactionStore

	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	Count(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
