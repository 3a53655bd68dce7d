package store

import (
	"database/sql"
	"fmt"
)

// Migrate brings the schema up to the latest user_version.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v < 1 {
		// ---- Schema v1: key/value ----
		if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`); err != nil {
			return fmt.Errorf("migrate v1: %w", err)
		}
		if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
			return err
		}
	}

	return tx.Commit()
}
