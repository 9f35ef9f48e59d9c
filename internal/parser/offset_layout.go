package parser

import (
	"manifest-scan-service/internal/domain"
	"strings"
)

// OffsetLayout recognizes the generic fixed-offset window used by manifests
// whose waybill shape carries no courier prefix. The AWB candidate sits two
// lines after the anchor regardless of anchor shape; SKU and quantity
// follow. Courier comes from the carried header state.
type OffsetLayout struct{}

func (l *OffsetLayout) Name() string { return "offset" }

func (l *OffsetLayout) TryMatch(lines []string, cursor int, st *ScanState) (domain.Shipment, int, bool) {
	orderID, _, ok := matchAnchor(lines, cursor)
	if !ok || cursor+2 >= len(lines) {
		return domain.Shipment{}, 0, false
	}

	awb := lines[cursor+2]
	// Waybills never contain whitespace; a spaced line at the AWB offset
	// means this window is not a record.
	if awb == "" || strings.ContainsAny(awb, " \t") {
		return domain.Shipment{}, 0, false
	}

	courier := st.Courier
	if courier == "" {
		courier = domain.Unknown
	}

	consumed := 3
	sku, n := readSKU(lines, cursor+consumed)
	consumed += n
	qty, n := readQuantity(lines, cursor+consumed)
	consumed += n

	return domain.Shipment{
		OrderID:  orderID,
		AWBID:    awb,
		Courier:  courier,
		SKU:      sku,
		Quantity: qty,
	}, consumed, true
}
