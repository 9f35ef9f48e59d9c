package parser

import (
	"errors"
	"manifest-scan-service/internal/domain"
	"strings"
	"testing"
)

func TestParseTextCourierWindow(t *testing.T) {
	text := strings.Join([]string{
		"Courier : Delhivery",
		"12345678901",
		"1490000000000000",
		"Vibrant Necklace",
		"1",
	}, "\n")

	p := New()
	records, err := p.ParseText(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.OrderID != "12345678901" {
		t.Errorf("order id = %q, want %q", rec.OrderID, "12345678901")
	}
	if rec.AWBID != "1490000000000000" {
		t.Errorf("awb id = %q, want %q", rec.AWBID, "1490000000000000")
	}
	if rec.Courier != "Delhivery" {
		t.Errorf("courier = %q, want %q", rec.Courier, "Delhivery")
	}
	if rec.SKU != "Vibrant Necklace" {
		t.Errorf("sku = %q, want %q", rec.SKU, "Vibrant Necklace")
	}
	if rec.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", rec.Quantity)
	}
}

func TestParseTextCourierCarriesAcrossRecords(t *testing.T) {
	text := strings.Join([]string{
		"Courier : Valmo",
		"11111111111",
		"VL123456789",
		"Together Scarf",
		"2",
		"22222222222",
		"VL987654321",
		"Mystic Aura Ring",
		"1",
	}, "\n")

	records, err := New().ParseText(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for i, rec := range records {
		if rec.Courier != "Valmo" {
			t.Errorf("record %d courier = %q, want Valmo", i, rec.Courier)
		}
	}
	if records[0].Quantity != 2 {
		t.Errorf("record 0 quantity = %d, want 2", records[0].Quantity)
	}
	if records[1].OrderID != "22222222222" {
		t.Errorf("record 1 order id = %q, want 22222222222", records[1].OrderID)
	}
}

func TestParseTextSKUContinuation(t *testing.T) {
	text := strings.Join([]string{
		"Courier : Xpress Bees",
		"12345678901",
		"1340000000000",
		"Divine Aura Combo",
		"Necklace and Earrings",
		"3",
	}, "\n")

	records, err := New().ParseText(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if want := "Divine Aura Combo Necklace and Earrings"; records[0].SKU != want {
		t.Errorf("sku = %q, want %q", records[0].SKU, want)
	}
	if records[0].Quantity != 3 {
		t.Errorf("quantity = %d, want 3", records[0].Quantity)
	}
}

func TestParseTextContinuationAnchor(t *testing.T) {
	// Bare digit anchor with a digits_digits continuation line: the order
	// id is the concatenation and the AWB still sits two lines after the
	// anchor.
	text := strings.Join([]string{
		"Courier : Delhivery",
		"123456789",
		"012_1",
		"1490000000000000",
		"Vibrant Bracelet",
		"1",
	}, "\n")

	records, err := New().ParseText(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if want := "123456789012_1"; records[0].OrderID != want {
		t.Errorf("order id = %q, want %q", records[0].OrderID, want)
	}
	if records[0].AWBID != "1490000000000000" {
		t.Errorf("awb id = %q, want 1490000000000000", records[0].AWBID)
	}
}

func TestParseTextTabularLines(t *testing.T) {
	text := strings.Join([]string{
		"160000000001 VL100200300 Together Set pickup bay 4",
		"170000000002 1490111222333 Vibrant pendant",
	}, "\n")

	records, err := New().ParseText(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if records[0].Courier != "Valmo" {
		t.Errorf("record 0 courier = %q, want Valmo", records[0].Courier)
	}
	if records[0].AWBID != "VL100200300" {
		t.Errorf("record 0 awb = %q, want VL100200300", records[0].AWBID)
	}
	if records[0].OrderID != "160000000001" {
		t.Errorf("record 0 order id = %q, want 160000000001", records[0].OrderID)
	}
	if records[0].SKU != "Together" {
		t.Errorf("record 0 sku = %q, want Together", records[0].SKU)
	}

	if records[1].Courier != "Delhivery" {
		t.Errorf("record 1 courier = %q, want Delhivery", records[1].Courier)
	}
	if records[1].SKU != "Vibrant" {
		t.Errorf("record 1 sku = %q, want Vibrant", records[1].SKU)
	}
}

func TestParseTextRejectsAnchorShapedAWB(t *testing.T) {
	// The AWB slot holds another bare order id; the window must be
	// rejected rather than double-consuming the anchor, and scanning must
	// resume so the real record that follows still parses.
	text := strings.Join([]string{
		"Courier : Delhivery",
		"12345678901",
		"notanawb",
		"98765432109",
		"11111111111",
		"1490000000000000",
		"Vibrant Necklace",
		"1",
	}, "\n")

	records, err := New().ParseText(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, rec := range records {
		if rec.AWBID == "98765432109" {
			t.Fatalf("anchor-shaped awb %q was accepted", rec.AWBID)
		}
	}

	found := false
	for _, rec := range records {
		if rec.AWBID == "1490000000000000" {
			found = true
		}
	}
	if !found {
		t.Fatalf("record after rejected window was lost: %+v", records)
	}
}

func TestParseTextEmptyManifest(t *testing.T) {
	_, err := New().ParseText("nothing here\nat all\n")
	if !errors.Is(err, domain.ErrEmptyManifest) {
		t.Fatalf("err = %v, want ErrEmptyManifest", err)
	}
}

func TestParseTextLowercaseAWB(t *testing.T) {
	// Waybill prefixes match regardless of case, so a lowered scan dump
	// still resolves to its courier.
	records, err := New().ParseText("160000000001 vl100200300 Together Scarf\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Courier != "Valmo" {
		t.Errorf("courier = %q, want Valmo", records[0].Courier)
	}
	if records[0].AWBID != "vl100200300" {
		t.Errorf("awb = %q, want vl100200300", records[0].AWBID)
	}
}

func TestParseDispatchesOnSourceKind(t *testing.T) {
	p := New()

	records, err := p.Parse(strings.NewReader("Order ID,AWB ID\n160000000001,VL100200300\n"), SourceCSV)
	if err != nil {
		t.Fatalf("csv parse: %v", err)
	}
	if len(records) != 1 || records[0].AWBID != "VL100200300" {
		t.Fatalf("csv records = %+v, want the single row", records)
	}

	records, err = p.Parse(strings.NewReader("160000000001 VL100200300 Together\n"), SourcePDFText)
	if err != nil {
		t.Fatalf("pdf text parse: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("pdf text records = %+v, want one record", records)
	}

	if _, err := p.Parse(strings.NewReader(""), SourceKind("xml")); err == nil {
		t.Fatalf("expected an error for an unsupported source kind")
	}
}

func TestParseTextDuplicatesPassThrough(t *testing.T) {
	text := strings.Join([]string{
		"160000000001 VL100200300 Together",
		"160000000002 VL100200300 Vibrant",
	}, "\n")

	records, err := New().ParseText(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected duplicate awbs to pass through, got %d records", len(records))
	}
}
