package stores

import (
	"context"
	"manifest-scan-service/internal/domain"
	"sync"
)

// In-process fallback store used when no durable backend is configured.
// Survives nothing, but keeps the engine agnostic of where rows live.
type MemoryLedgerStore struct {
	mu   sync.RWMutex
	rows []domain.Shipment
}

func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{}
}

func (s *MemoryLedgerStore) Save(ctx context.Context, rows []domain.Shipment) error {
	cp := make([]domain.Shipment, len(rows))
	copy(cp, rows)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = cp
	return nil
}

func (s *MemoryLedgerStore) Load(ctx context.Context) ([]domain.Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := make([]domain.Shipment, len(s.rows))
	copy(cp, s.rows)
	return cp, nil
}

func (s *MemoryLedgerStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = nil
	return nil
}
