package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/sol-search/internal/common"
	"github.com/Veraticus/sol-search/internal/model"
)

const selectColumns = `
	SELECT id, hash, date, time, description, category, memo, type, amount, balance_after,
		counterparty_name, counterparty_account, counterparty_bank
	FROM transactions`

// Newest date first; insertion order among records sharing a date.
const orderByDate = ` ORDER BY date DESC, seq ASC`

const orderByDateTime = ` ORDER BY date DESC, time DESC, seq ASC`

const transferPredicate = `type = 'withdrawal' AND counterparty_name IS NOT NULL AND counterparty_name != ''`

// SaveTransactions saves multiple transactions to the database.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	// Validate inputs
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveTransactionsTx(ctx, tx, transactions); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) saveTransactionsTx(ctx context.Context, tx *sql.Tx, transactions []model.Transaction) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, hash, date, time, description, category, memo, type, amount, balance_after,
			counterparty_name, counterparty_account, counterparty_bank
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		// Generate hash if not already set
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}

		var name, account, bank sql.NullString
		if txn.Counterparty != nil {
			name = sql.NullString{String: txn.Counterparty.Name, Valid: true}
			account = sql.NullString{String: txn.Counterparty.Account, Valid: true}
			bank = sql.NullString{String: txn.Counterparty.Bank, Valid: true}
		}

		_, err = stmt.ExecContext(ctx,
			txn.ID,
			txn.Hash,
			txn.DateString(),
			txn.Time,
			txn.Description,
			txn.Category,
			txn.Memo,
			string(txn.Type),
			txn.Amount,
			txn.BalanceAfter,
			name,
			account,
			bank,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	return nil
}

// Count returns the number of stored records.
func (s *SQLiteStorage) Count(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

// ByMerchant returns records whose description contains substr.
func (s *SQLiteStorage) ByMerchant(ctx context.Context, substr string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(substr, "merchant"); err != nil {
		return nil, err
	}
	// lower() in SQLite folds ASCII only, so Unicode folding happens here.
	return s.query(ctx, selectColumns+` WHERE instr(lower(description), ?) > 0`+orderByDate,
		strings.ToLower(substr))
}

// ByRecipient returns withdrawals whose description or counterparty contains name.
func (s *SQLiteStorage) ByRecipient(ctx context.Context, name string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return s.query(ctx, selectColumns+`
		WHERE type = 'withdrawal'
		AND (instr(description, ?) > 0 OR instr(COALESCE(counterparty_name, ''), ?) > 0)`+orderByDate,
		name, name)
}

// ByDateRange returns records within the inclusive calendar bounds.
func (s *SQLiteStorage) ByDateRange(ctx context.Context, start, end time.Time, t model.TransactionType) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}
	if err := validateFilterType(t); err != nil {
		return nil, err
	}

	query := selectColumns + ` WHERE date >= ? AND date <= ?`
	args := []any{start.Format(model.DateLayout), end.Format(model.DateLayout)}
	if t != "" && t != model.TypeAll {
		query += ` AND type = ?`
		args = append(args, string(t))
	}
	return s.query(ctx, query+orderByDate, args...)
}

// ByType returns records of the given type.
func (s *SQLiteStorage) ByType(ctx context.Context, t model.TransactionType) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilterType(t); err != nil {
		return nil, err
	}
	if t == "" || t == model.TypeAll {
		return s.query(ctx, selectColumns+orderByDate)
	}
	return s.query(ctx, selectColumns+` WHERE type = ?`+orderByDate, string(t))
}

// Recent returns the newest limit records.
func (s *SQLiteStorage) Recent(ctx context.Context, limit int) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return s.query(ctx, selectColumns+orderByDate)
	}
	return s.query(ctx, selectColumns+orderByDate+` LIMIT ?`, limit)
}

// LatestContactByName returns the newest transfer recipient matching name.
func (s *SQLiteStorage) LatestContactByName(ctx context.Context, name string) (model.Contact, error) {
	if err := validateContext(ctx); err != nil {
		return model.Contact{}, err
	}
	if err := validateString(name, "name"); err != nil {
		return model.Contact{}, err
	}

	row := s.db.QueryRowContext(ctx, selectColumns+`
		WHERE `+transferPredicate+`
		AND (instr(description, ?) > 0 OR instr(counterparty_name, ?) > 0)`+orderByDateTime+` LIMIT 1`,
		name, name)
	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Contact{}, fmt.Errorf("no transfer to %s: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to look up contact %s: %w", name, err)
	}

	contacts := model.ContactsFromTransfers([]model.Transaction{txn}, 1)
	if len(contacts) == 0 {
		return model.Contact{}, fmt.Errorf("no transfer to %s: %w", name, common.ErrNotFound)
	}
	return contacts[0], nil
}

// RecentContacts returns de-duplicated recipients from the newest transfers.
func (s *SQLiteStorage) RecentContacts(ctx context.Context, limit int) ([]model.Contact, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	transfers, err := s.query(ctx, selectColumns+` WHERE `+transferPredicate+orderByDateTime)
	if err != nil {
		return nil, err
	}
	return model.ContactsFromTransfers(transfers, limit), nil
}

func (s *SQLiteStorage) query(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	txns := []model.Transaction{}
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var (
		txn                 model.Transaction
		date, txType        string
		name, account, bank sql.NullString
	)
	err := row.Scan(
		&txn.ID,
		&txn.Hash,
		&date,
		&txn.Time,
		&txn.Description,
		&txn.Category,
		&txn.Memo,
		&txType,
		&txn.Amount,
		&txn.BalanceAfter,
		&name,
		&account,
		&bank,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, err
		}
		return model.Transaction{}, fmt.Errorf("failed to scan transaction: %w", err)
	}

	txn.Date, err = time.Parse(model.DateLayout, date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("transaction %s has invalid date %q: %w", txn.ID, date, err)
	}
	txn.Type = model.TransactionType(txType)
	if name.Valid {
		txn.Counterparty = &model.Counterparty{
			Name:    name.String,
			Account: account.String,
			Bank:    bank.String,
		}
	}
	return txn, nil
}
