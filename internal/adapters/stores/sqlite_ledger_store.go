package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"manifest-scan-service/internal/domain"
)

// SQLite-backed implementation of the LedgerStore port. A Save replaces
// the whole table inside one transaction, so readers see either the prior
// ledger or the new one, never a mix.
type SqliteLedgerStore struct {
	DB *sql.DB
}

func NewSqliteLedgerStore(db *sql.DB) *SqliteLedgerStore {
	return &SqliteLedgerStore{DB: db}
}

func (s *SqliteLedgerStore) Save(ctx context.Context, rows []domain.Shipment) error {
	if s.DB == nil {
		return errors.New("sqlite ledger store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save ledger: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger;`); err != nil {
		return fmt.Errorf("save ledger: clear ledger table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO ledger (
		position,
		order_id,
		awb_id,
		courier,
		sku,
		qty,
		status,
		scanned_time
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("save ledger: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range rows {
		_, err := stmt.ExecContext(ctx, i, rec.OrderID, rec.AWBID, rec.Courier, rec.SKU, rec.Quantity, string(rec.Status), rec.ScannedTime)
		if err != nil {
			return fmt.Errorf("save ledger: insert awb=%q: %w", rec.AWBID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save ledger: commit tx: %w", err)
	}
	return nil
}

func (s *SqliteLedgerStore) Load(ctx context.Context) ([]domain.Shipment, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite ledger store: DB is nil")
	}

	query := `
	SELECT
		order_id,
		awb_id,
		courier,
		sku,
		qty,
		status,
		scanned_time
	FROM ledger
	ORDER BY position;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load ledger: query ledger table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Shipment, 0, 64)
	for rows.Next() {
		var rec domain.Shipment
		var status string
		if err := rows.Scan(&rec.OrderID, &rec.AWBID, &rec.Courier, &rec.SKU, &rec.Quantity, &status, &rec.ScannedTime); err != nil {
			return nil, fmt.Errorf("load ledger: scan row: %w", err)
		}
		rec.Status = domain.Status(status)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load ledger: row iteration: %w", err)
	}

	return out, nil
}

func (s *SqliteLedgerStore) Clear(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("sqlite ledger store: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM ledger;`); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	return nil
}
