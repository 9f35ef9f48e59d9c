package ports

import (
	"context"
	"manifest-scan-service/internal/domain"
)

// Port: persistence boundary for the shipment ledger.
//
// Save replaces the persisted ledger wholesale and must be all-or-nothing
// with respect to concurrent readers: a reader must never observe a
// truncated ledger.
type LedgerStore interface {
	// Replace the persisted ledger with the given rows, preserving order.
	Save(ctx context.Context, rows []domain.Shipment) error
	// Return the persisted ledger in row order. A ledger that was never
	// saved yields an empty slice, not an error.
	Load(ctx context.Context) ([]domain.Shipment, error)
	// Remove the persisted ledger entirely.
	Clear(ctx context.Context) error
}
