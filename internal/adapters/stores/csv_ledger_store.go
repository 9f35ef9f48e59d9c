package stores

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"manifest-scan-service/internal/domain"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CSV-file-backed ledger store. Saves write the full table to a temp file
// in the same directory and atomically rename it over the previous ledger,
// so a concurrent reader never observes a truncated file.
type CSVLedgerStore struct {
	Path string
}

func NewCSVLedgerStore(path string) *CSVLedgerStore {
	return &CSVLedgerStore{Path: path}
}

func (s *CSVLedgerStore) Save(ctx context.Context, rows []domain.Shipment) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save csv ledger: create dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "ledger-*.csv")
	if err != nil {
		return fmt.Errorf("save csv ledger: create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	w := csv.NewWriter(tmp)
	if err := w.Write(domain.ExportColumns); err != nil {
		tmp.Close()
		return fmt.Errorf("save csv ledger: write header: %w", err)
	}
	for _, rec := range rows {
		record := []string{
			rec.OrderID,
			rec.AWBID,
			rec.Courier,
			rec.SKU,
			strconv.Itoa(rec.Quantity),
			string(rec.Status),
			rec.ScannedTime,
		}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("save csv ledger: write row awb=%q: %w", rec.AWBID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("save csv ledger: flush: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("save csv ledger: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save csv ledger: close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("save csv ledger: replace %q: %w", s.Path, err)
	}
	return nil
}

func (s *CSVLedgerStore) Load(ctx context.Context) ([]domain.Shipment, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.Shipment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load csv ledger: open %q: %w", s.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []domain.Shipment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load csv ledger: read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	rows := make([]domain.Shipment, 0, 64)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load csv ledger: read row: %w", err)
		}

		qty := 1
		if q, err := strconv.Atoi(strings.TrimSpace(field(row, "qty"))); err == nil && q > 0 {
			qty = q
		}
		rows = append(rows, domain.Shipment{
			OrderID:     field(row, "order id"),
			AWBID:       strings.TrimSpace(field(row, "awb id")),
			Courier:     field(row, "courier"),
			SKU:         field(row, "sku"),
			Quantity:    qty,
			Status:      domain.Status(field(row, "status")),
			ScannedTime: field(row, "scanned time"),
		})
	}

	return rows, nil
}

func (s *CSVLedgerStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear csv ledger: remove %q: %w", s.Path, err)
	}
	return nil
}
