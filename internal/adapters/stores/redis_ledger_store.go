package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"manifest-scan-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const defaultLedgerKey = "manifest:ledger"

// Redis-backed ledger store. The whole ledger lives under a single key as
// one JSON document, so replacement is a single atomic SET and readers
// never observe a half-written ledger.
type RedisLedgerStore struct {
	Client *redis.Client
	Key    string
}

func NewRedisLedgerStore(client *redis.Client) *RedisLedgerStore {
	return &RedisLedgerStore{Client: client, Key: defaultLedgerKey}
}

func (s *RedisLedgerStore) Save(ctx context.Context, rows []domain.Shipment) error {
	if s.Client == nil {
		return errors.New("redis ledger store: client is nil")
	}

	b, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("save ledger: marshal rows: %w", err)
	}

	if err := s.Client.Set(ctx, s.Key, b, 0).Err(); err != nil {
		return fmt.Errorf("save ledger: set key %q: %w", s.Key, err)
	}
	return nil
}

func (s *RedisLedgerStore) Load(ctx context.Context) ([]domain.Shipment, error) {
	if s.Client == nil {
		return nil, errors.New("redis ledger store: client is nil")
	}

	b, err := s.Client.Get(ctx, s.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.Shipment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger: get key %q: %w", s.Key, err)
	}

	var rows []domain.Shipment
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, fmt.Errorf("load ledger: unmarshal rows: %w", err)
	}
	return rows, nil
}

func (s *RedisLedgerStore) Clear(ctx context.Context) error {
	if s.Client == nil {
		return errors.New("redis ledger store: client is nil")
	}

	if err := s.Client.Del(ctx, s.Key).Err(); err != nil {
		return fmt.Errorf("clear ledger: del key %q: %w", s.Key, err)
	}
	return nil
}
