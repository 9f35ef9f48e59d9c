package stores

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the ledger schema. The DDL is intentionally limited to the
// dialect intersection of SQLite and Postgres so both stores share it.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	createLedgerQuery := `
	CREATE TABLE IF NOT EXISTS ledger (
		position INTEGER NOT NULL,
		order_id TEXT NOT NULL,
		awb_id TEXT NOT NULL,
		courier TEXT NOT NULL,
		sku TEXT NOT NULL,
		qty INTEGER NOT NULL,
		status TEXT NOT NULL,
		scanned_time TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_ledger_awb_id ON ledger(awb_id);
	`

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range []string{createLedgerQuery, createIndexQuery} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}
	return nil
}
