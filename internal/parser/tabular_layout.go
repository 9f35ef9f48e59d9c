package parser

import (
	"manifest-scan-service/internal/domain"
	"strings"
)

// TabularLayout recognizes already-tabular manifest dumps where each line
// carries a full record. The line is probed against the waybill table, the
// order id priority list, and the SKU keyword table; first match wins in
// each table and table order is fixed.
type TabularLayout struct{}

func (l *TabularLayout) Name() string { return "tabular" }

func (l *TabularLayout) TryMatch(lines []string, cursor int, st *ScanState) (domain.Shipment, int, bool) {
	line := lines[cursor]

	var courier, awb string
	for _, p := range awbPatterns {
		if m := p.Re.FindString(line); m != "" {
			courier, awb = p.Courier, m
			break
		}
	}
	if awb == "" {
		return domain.Shipment{}, 0, false
	}

	orderID := domain.Unknown
	for _, re := range orderPatterns {
		if m := re.FindString(line); m != "" && m != awb {
			orderID = m
			break
		}
	}

	sku := domain.Unknown
	lower := strings.ToLower(line)
	for _, k := range skuKeywords {
		for _, kw := range k.Keywords {
			if strings.Contains(lower, kw) {
				sku = k.SKU
				break
			}
		}
		if sku != domain.Unknown {
			break
		}
	}

	return domain.Shipment{
		OrderID:  orderID,
		AWBID:    awb,
		Courier:  courier,
		SKU:      sku,
		Quantity: 1,
	}, 1, true
}
