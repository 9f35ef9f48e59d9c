package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"manifest-scan-service/internal/domain"
	"strconv"
	"strings"
)

// ParseCSV maps header-named columns onto shipment records. Any of the
// five manifest columns absent from the header is filled with the Unknown
// sentinel; rows whose trimmed AWB id is empty are dropped.
func (p *Parser) ParseCSV(r io.Reader) ([]domain.Shipment, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse csv: %w", domain.ErrEmptyManifest)
	}
	if err != nil {
		return nil, fmt.Errorf("parse csv: read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	field := func(row []string, name string) (string, bool) {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	records := make([]domain.Shipment, 0, 32)
	dropped := 0
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A malformed row never aborts the parse.
			log.Printf("parser: csv line=%d skipped: %v", line, err)
			dropped++
			continue
		}

		awb, _ := field(row, "awb id")
		if awb == "" {
			log.Printf("parser: csv line=%d dropped: empty awb id", line)
			dropped++
			continue
		}

		rec := domain.Shipment{
			OrderID:  domain.Unknown,
			AWBID:    awb,
			Courier:  domain.Unknown,
			SKU:      domain.Unknown,
			Quantity: 1,
		}
		if v, ok := field(row, "order id"); ok && v != "" {
			rec.OrderID = v
		}
		if v, ok := field(row, "courier"); ok && v != "" {
			rec.Courier = v
		}
		if v, ok := field(row, "sku"); ok && v != "" {
			rec.SKU = v
		}
		v, ok := field(row, "qty")
		if !ok {
			v, ok = field(row, "quantity")
		}
		if ok {
			if q, err := strconv.Atoi(v); err == nil && q > 0 {
				rec.Quantity = q
			}
		}
		if v, ok := field(row, "status"); ok {
			rec.Status = domain.Status(v)
		}
		if v, ok := field(row, "scanned time"); ok {
			rec.ScannedTime = v
		}

		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("parse csv: %d rows dropped: %w", dropped, domain.ErrEmptyManifest)
	}

	return records, nil
}
