package domain

import "strings"

// Unknown is the sentinel value for fields the parser could not extract.
const Unknown = "Unknown"

// ScannedTimeLayout is the timestamp format stamped on scanned records.
// It matches the layout used by the persisted CSV ledger.
const ScannedTimeLayout = "2006-01-02 15:04:05"

// ExportColumns is the persisted ledger column order. Stores and the CSV
// export both emit exactly these columns.
var ExportColumns = []string{"Order ID", "AWB ID", "Courier", "SKU", "Qty", "Status", "Scanned Time"}

type Status string

const (
	StatusPending   Status = "Pending"
	StatusPacked    Status = "Packed"
	StatusCancelled Status = "Cancelled"
	StatusInTransit Status = "In Transit"
	StatusDelivered Status = "Delivered"
)

// Represents a single manifest entry, keyed by its AWB (air waybill) id.
// A Shipment is produced by the manifest parser, entered from a CSV row,
// or synthesized by the reconciler when an unexpected barcode is scanned.
type Shipment struct {
	OrderID     string
	AWBID       string
	Courier     string
	SKU         string
	Quantity    int
	Status      Status
	ScannedTime string
}

// Key returns the trimmed AWB id used for every ledger comparison.
func (s Shipment) Key() string {
	return strings.TrimSpace(s.AWBID)
}

// NewSynthesized builds the audit row recorded when a scanned barcode
// matches nothing in the ledger. The row is permanent and visible rather
// than a silent error.
func NewSynthesized(awb string, status Status, scannedAt string) Shipment {
	return Shipment{
		OrderID:     Unknown,
		AWBID:       strings.TrimSpace(awb),
		Courier:     Unknown,
		SKU:         Unknown,
		Quantity:    1,
		Status:      status,
		ScannedTime: scannedAt,
	}
}
