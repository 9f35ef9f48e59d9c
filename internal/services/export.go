package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"manifest-scan-service/internal/domain"
	"strconv"
)

// Export serializes the ledger back to its tabular row shape, header
// included, in ledger order (load order, with synthesized rows at their
// append positions).
func (r *Reconciler) Export(w io.Writer) error {
	r.mu.Lock()
	rows := snapshot(r.ledger)
	r.mu.Unlock()

	cw := csv.NewWriter(w)
	if err := cw.Write(domain.ExportColumns); err != nil {
		return fmt.Errorf("export ledger: write header: %w", err)
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
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export ledger: write row awb=%q: %w", rec.AWBID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export ledger: flush: %w", err)
	}
	return nil
}
