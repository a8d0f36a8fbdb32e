package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the schema version after all migrations.
const ExpectedSchemaVersion = 2

// Migration is one forward schema step.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Create transactions table",
		Up: func(tx *sql.Tx) error {
			// seq preserves insertion order for records sharing a date.
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS transactions (
					seq INTEGER PRIMARY KEY AUTOINCREMENT,
					id TEXT NOT NULL UNIQUE,
					hash TEXT NOT NULL,
					date TEXT NOT NULL,
					time TEXT NOT NULL DEFAULT '',
					description TEXT NOT NULL,
					category TEXT NOT NULL DEFAULT '',
					memo TEXT NOT NULL DEFAULT '',
					type TEXT NOT NULL CHECK (type IN ('deposit', 'withdrawal')),
					amount INTEGER NOT NULL,
					balance_after INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				);

				CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
				CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions(type);
			`)
			return err
		},
	},
	{
		Version:     2,
		Description: "Add counterparty columns for transfer recipients",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				ALTER TABLE transactions ADD COLUMN counterparty_name TEXT;
				ALTER TABLE transactions ADD COLUMN counterparty_account TEXT;
				ALTER TABLE transactions ADD COLUMN counterparty_bank TEXT;

				CREATE INDEX IF NOT EXISTS idx_transactions_counterparty ON transactions(counterparty_name);
			`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	// Apply migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		// Update version
		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion reports the current PRAGMA user_version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var v int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return v, nil
}
