package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sqlx.Tx) error
	Description string
	Version     int
}

func execAll(tx *sqlx.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Payee classifications",
		Up: func(tx *sqlx.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS payee_classifications (
					id TEXT NOT NULL,
					payee_name TEXT NOT NULL,
					row_index INTEGER NOT NULL,
					batch_id TEXT NOT NULL DEFAULT '',
					classification TEXT NOT NULL,
					confidence INTEGER NOT NULL,
					processing_tier TEXT NOT NULL,
					processing_method TEXT NOT NULL DEFAULT '',
					reasoning TEXT NOT NULL DEFAULT '',
					sic_code TEXT NOT NULL DEFAULT '',
					sic_description TEXT NOT NULL DEFAULT '',
					result_json TEXT NOT NULL,
					original_data TEXT,
					classified_at TIMESTAMP NOT NULL,
					PRIMARY KEY (payee_name, row_index, batch_id)
				)`,
				`CREATE INDEX IF NOT EXISTS idx_payee_classifications_batch ON payee_classifications(batch_id)`,
				`CREATE INDEX IF NOT EXISTS idx_payee_classifications_name ON payee_classifications(payee_name)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Custom exclusion keywords",
		Up: func(tx *sqlx.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS custom_keywords (
					keyword TEXT PRIMARY KEY,
					created_at TIMESTAMP NOT NULL
				)`,
			)
		},
	},
	{
		Version:     3,
		Description: "Index SIC lookups",
		Up: func(tx *sqlx.Tx) error {
			return execAll(tx,
				`CREATE INDEX IF NOT EXISTS idx_payee_classifications_sic ON payee_classifications(payee_name, sic_code)`,
			)
		},
	},
}

// Migrate applies all pending database migrations.
func (s *Store) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTxx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(
			tx.Rebind(`INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)`),
			migration.Version, migration.Description, time.Now().UTC(),
		); execErr != nil {
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

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion returns the highest applied migration version, 0 for a new
// database.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL
	)`); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	var version int
	if err := s.db.GetContext(ctx, &version, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
