package services

import (
	"bytes"
	"context"
	"errors"
	"manifest-scan-service/internal/adapters/stores"
	"manifest-scan-service/internal/domain"
	"manifest-scan-service/internal/parser"
	"testing"
	"time"
)

func newTestReconciler() *Reconciler {
	r := NewReconciler(stores.NewMemoryLedgerStore(), domain.WarehouseProfile)
	r.now = func() time.Time {
		return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	}
	return r
}

func testRecords() []domain.Shipment {
	return []domain.Shipment{
		{OrderID: "12345678901", AWBID: "1490000000000000", Courier: "Delhivery", SKU: "Vibrant Necklace", Quantity: 1},
		{OrderID: "11111111111", AWBID: "VL123456789", Courier: "Valmo", SKU: "Together Scarf", Quantity: 2},
	}
}

func TestLoadForcesInitialStatus(t *testing.T) {
	r := newTestReconciler()

	records := testRecords()
	records[0].Status = domain.StatusPacked
	records[0].ScannedTime = "2026-01-01 00:00:00"

	outcome, err := r.Load(context.Background(), records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Stats.Total != 2 || outcome.Stats.Pending != 2 {
		t.Fatalf("stats = %+v, want 2 pending of 2", outcome.Stats)
	}
	if outcome.ManifestID == "" {
		t.Errorf("manifest id is empty")
	}

	for _, rec := range r.Shipments() {
		if rec.Status != domain.StatusPending {
			t.Errorf("awb %s status = %q, want Pending", rec.AWBID, rec.Status)
		}
		if rec.ScannedTime != "" {
			t.Errorf("awb %s scanned time = %q, want empty", rec.AWBID, rec.ScannedTime)
		}
	}
}

func TestDispatchProfileScanOutcomes(t *testing.T) {
	r := NewReconciler(stores.NewMemoryLedgerStore(), domain.DispatchProfile)
	r.now = func() time.Time {
		return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	}
	if _, err := r.Load(context.Background(), testRecords()); err != nil {
		t.Fatalf("load: %v", err)
	}

	for _, rec := range r.Shipments() {
		if rec.Status != domain.StatusPacked {
			t.Errorf("awb %s status = %q, want Packed", rec.AWBID, rec.Status)
		}
	}

	out, err := r.Scan(context.Background(), "VL123456789")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if out.Status != domain.StatusInTransit || out.Already {
		t.Fatalf("first scan outcome = %+v, want fresh In Transit", out)
	}

	out, err = r.Scan(context.Background(), "VL123456789")
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if !out.Already || out.Status != domain.StatusInTransit {
		t.Fatalf("rescan outcome = %+v, want Already In Transit", out)
	}

	// Unmatched barcodes are still recorded for the audit trail; under the
	// dispatch vocabulary the synthesized row closes out as Delivered.
	out, err = r.Scan(context.Background(), "VL000000000")
	if err != nil {
		t.Fatalf("unknown scan: %v", err)
	}
	if !out.Synthesized || out.Status != domain.StatusDelivered {
		t.Fatalf("unknown scan outcome = %+v, want synthesized Delivered", out)
	}
	if out.Stats.Total != 3 || out.Stats.Packed != 1 || out.Stats.Cancelled != 1 {
		t.Fatalf("stats = %+v, want total=3 success=1 failure=1", out.Stats)
	}
}

func TestScanPacksThenRejectsRescan(t *testing.T) {
	r := newTestReconciler()
	if _, err := r.Load(context.Background(), testRecords()); err != nil {
		t.Fatalf("load: %v", err)
	}

	out, err := r.Scan(context.Background(), "1490000000000000")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if out.Status != domain.StatusPacked || out.Already || out.Synthesized {
		t.Fatalf("first scan outcome = %+v, want fresh Packed", out)
	}
	if out.Stats.Packed != 1 {
		t.Errorf("stats.packed = %d, want 1", out.Stats.Packed)
	}

	again, err := r.Scan(context.Background(), "1490000000000000")
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if !again.Already {
		t.Fatalf("rescan outcome = %+v, want already=true", again)
	}
	if again.Stats.Total != out.Stats.Total {
		t.Errorf("rescan changed ledger size: %d -> %d", out.Stats.Total, again.Stats.Total)
	}

	rows := r.Shipments()
	if rows[0].ScannedTime != "2026-03-01 09:30:00" {
		t.Errorf("scanned time = %q, want stamped clock value", rows[0].ScannedTime)
	}
}

func TestScanWithWhitespaceMatches(t *testing.T) {
	r := newTestReconciler()
	if _, err := r.Load(context.Background(), testRecords()); err != nil {
		t.Fatalf("load: %v", err)
	}

	out, err := r.Scan(context.Background(), "  VL123456789  ")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if out.Status != domain.StatusPacked {
		t.Fatalf("outcome = %+v, want Packed", out)
	}
}

func TestScanUnknownAWBSynthesizesCancelledRow(t *testing.T) {
	r := newTestReconciler()
	if _, err := r.Load(context.Background(), testRecords()); err != nil {
		t.Fatalf("load: %v", err)
	}

	before := r.Stats().Total
	out, err := r.Scan(context.Background(), "DOES-NOT-EXIST")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	if !out.Synthesized {
		t.Fatalf("outcome = %+v, want synthesized", out)
	}
	if out.Status != domain.StatusCancelled {
		t.Errorf("status = %q, want Cancelled", out.Status)
	}
	if out.Stats.Total != before+1 {
		t.Errorf("total = %d, want %d", out.Stats.Total, before+1)
	}

	rows := r.Shipments()
	last := rows[len(rows)-1]
	if last.AWBID != "DOES-NOT-EXIST" || last.OrderID != domain.Unknown || last.Quantity != 1 {
		t.Errorf("synthesized row = %+v", last)
	}

	// Re-scanning the synthesized barcode is a terminal rejection.
	again, err := r.Scan(context.Background(), "DOES-NOT-EXIST")
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if !again.Already || again.Stats.Total != before+1 {
		t.Errorf("rescan outcome = %+v, want already with unchanged size", again)
	}
}

func TestScanWithoutManifest(t *testing.T) {
	r := newTestReconciler()
	if _, err := r.Scan(context.Background(), "VL123456789"); !errors.Is(err, domain.ErrNoManifest) {
		t.Fatalf("err = %v, want ErrNoManifest", err)
	}
}

func TestScanFirstMatchWinsOnDuplicates(t *testing.T) {
	r := newTestReconciler()
	records := []domain.Shipment{
		{OrderID: "1", AWBID: "VL100", SKU: "A", Quantity: 1},
		{OrderID: "2", AWBID: "VL100", SKU: "B", Quantity: 1},
	}
	if _, err := r.Load(context.Background(), records); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := r.Scan(context.Background(), "VL100"); err != nil {
		t.Fatalf("scan: %v", err)
	}

	rows := r.Shipments()
	if rows[0].Status != domain.StatusPacked {
		t.Errorf("first row status = %q, want Packed", rows[0].Status)
	}
	if rows[1].Status != domain.StatusPending {
		t.Errorf("second row status = %q, want untouched Pending", rows[1].Status)
	}
}

func TestDeleteRemovesAllMatches(t *testing.T) {
	r := newTestReconciler()
	records := []domain.Shipment{
		{OrderID: "1", AWBID: "VL100", Quantity: 1},
		{OrderID: "2", AWBID: "VL200", Quantity: 1},
		{OrderID: "3", AWBID: "VL100", Quantity: 1},
	}
	if _, err := r.Load(context.Background(), records); err != nil {
		t.Fatalf("load: %v", err)
	}

	out, err := r.Delete(context.Background(), "VL100")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if out.Removed != 2 {
		t.Errorf("removed = %d, want 2", out.Removed)
	}
	if out.Stats.Total != 1 {
		t.Errorf("total = %d, want 1", out.Stats.Total)
	}

	if _, err := r.Delete(context.Background(), "VL100"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestStatsSumEqualsLedgerSize(t *testing.T) {
	r := newTestReconciler()
	if _, err := r.Load(context.Background(), testRecords()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := r.Scan(context.Background(), "VL123456789"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if _, err := r.Scan(context.Background(), "UNEXPECTED-1"); err != nil {
		t.Fatalf("scan: %v", err)
	}

	st := r.Stats()
	if sum := st.Packed + st.Pending + st.Cancelled; sum != st.Total {
		t.Errorf("packed+pending+cancelled = %d, total = %d", sum, st.Total)
	}
	if st.Total != len(r.Shipments()) {
		t.Errorf("total = %d, ledger size = %d", st.Total, len(r.Shipments()))
	}
}

func TestExportRoundTrip(t *testing.T) {
	r := newTestReconciler()
	if _, err := r.Load(context.Background(), testRecords()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := r.Scan(context.Background(), "1490000000000000"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if _, err := r.Scan(context.Background(), "UNEXPECTED-1"); err != nil {
		t.Fatalf("scan: %v", err)
	}

	var buf bytes.Buffer
	if err := r.Export(&buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	records, err := parser.New().ParseCSV(&buf)
	if err != nil {
		t.Fatalf("reparse export: %v", err)
	}

	r2 := newTestReconciler()
	outcome, err := r2.Load(context.Background(), records)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if outcome.Stats.Total != r.Stats().Total {
		t.Fatalf("reloaded total = %d, want %d", outcome.Stats.Total, r.Stats().Total)
	}

	want := map[string]bool{}
	for _, rec := range r.Shipments() {
		want[rec.AWBID] = true
	}
	for _, rec := range r2.Shipments() {
		if !want[rec.AWBID] {
			t.Errorf("awb %q not in original ledger", rec.AWBID)
		}
	}
}

func TestFailedPersistLeavesLedgerUntouched(t *testing.T) {
	store := &failingStore{}
	r := NewReconciler(store, domain.WarehouseProfile)
	r.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }

	if _, err := r.Load(context.Background(), testRecords()); err != nil {
		t.Fatalf("load: %v", err)
	}

	store.failSave = true
	if _, err := r.Scan(context.Background(), "1490000000000000"); err == nil {
		t.Fatal("expected scan to fail when persist fails")
	}

	rows := r.Shipments()
	if rows[0].Status != domain.StatusPending {
		t.Errorf("status = %q, want Pending after failed persist", rows[0].Status)
	}
	if st := r.Stats(); st.Packed != 0 {
		t.Errorf("stats.packed = %d, want 0", st.Packed)
	}
}

// failingStore persists nothing and can be told to reject saves.
type failingStore struct {
	failSave bool
}

func (s *failingStore) Save(ctx context.Context, rows []domain.Shipment) error {
	if s.failSave {
		return errors.New("store unavailable")
	}
	return nil
}

func (s *failingStore) Load(ctx context.Context) ([]domain.Shipment, error) {
	return []domain.Shipment{}, nil
}

func (s *failingStore) Clear(ctx context.Context) error { return nil }
