package parser

import "manifest-scan-service/internal/domain"

// CourierLayout recognizes the pattern-matched multi-line window: an order
// anchor immediately followed by a waybill whose shape belongs to a known
// courier. The window is anchor, AWB, SKU (optionally two lines), quantity.
type CourierLayout struct{}

func (l *CourierLayout) Name() string { return "courier" }

func (l *CourierLayout) TryMatch(lines []string, cursor int, st *ScanState) (domain.Shipment, int, bool) {
	orderID, anchorLen, ok := matchAnchor(lines, cursor)
	if !ok || cursor+anchorLen >= len(lines) {
		return domain.Shipment{}, 0, false
	}

	patternCourier, awb := matchAWBLine(lines[cursor+anchorLen])
	if awb == "" {
		return domain.Shipment{}, 0, false
	}

	// The header courier carried by the scan takes precedence over the
	// waybill shape's courier when both are known.
	courier := st.Courier
	if courier == "" {
		courier = patternCourier
	}

	consumed := anchorLen + 1
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
