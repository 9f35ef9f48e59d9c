package parser

import (
	"manifest-scan-service/internal/domain"
	"regexp"
	"strconv"
	"strings"
)

// Recognized courier waybill shapes, matched case-insensitively so scanned
// text with lowered prefixes still resolves. Slice, not map: first match
// wins and the iteration order is significant.
var awbPatterns = []struct {
	Courier string
	Re      *regexp.Regexp
}{
	{"Valmo", regexp.MustCompile(`(?i)VL\d+`)},
	{"Xpress Bees", regexp.MustCompile(`134\d+`)},
	{"Delhivery", regexp.MustCompile(`1490\d+`)},
	{"Generic", regexp.MustCompile(`(?i)[A-Z]{2,3}\d{8,}`)},
}

// Order id shapes in priority order.
var orderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`16\d{10,}`),
	regexp.MustCompile(`17\d{10,}`),
	regexp.MustCompile(`\d{12,15}`),
}

// Product keyword table for tabular manifests. First match wins.
var skuKeywords = []struct {
	SKU      string
	Keywords []string
}{
	{"Together", []string{"together"}},
	{"Divine Aura", []string{"divine aura", "aura"}},
	{"Mystic Aura", []string{"mystic aura"}},
	{"Vibrant", []string{"vibrant"}},
}

var (
	digitsOnlyRe        = regexp.MustCompile(`^\d+$`)
	anchor11Re          = regexp.MustCompile(`^\d{11}$`)
	orderContinuationRe = regexp.MustCompile(`^\d+_\d+$`)
	skuContinuationRe   = regexp.MustCompile(`(?i)\b(combo|set of \d+|pack of \d+|\d+\s*pcs)\b`)
)

// matchAnchor reports the assembled order id at the cursor and how many
// lines the anchor occupies. Two shapes are recognized: an 11-digit line on
// its own, and a bare digit line whose successor is a digits_digits
// continuation (order id is the concatenation of both lines).
func matchAnchor(lines []string, i int) (orderID string, n int, ok bool) {
	line := lines[i]
	if anchor11Re.MatchString(line) {
		return line, 1, true
	}
	if digitsOnlyRe.MatchString(line) && i+1 < len(lines) && orderContinuationRe.MatchString(lines[i+1]) {
		return line + lines[i+1], 2, true
	}
	return "", 0, false
}

// anchorShaped reports whether a value on its own could be mistaken for an
// order anchor. Used to keep an anchor from being double-consumed as an
// AWB.
func anchorShaped(s string) bool {
	return anchor11Re.MatchString(s) || orderContinuationRe.MatchString(s)
}

// matchAWBLine matches an entire line against the courier waybill table.
func matchAWBLine(line string) (courier, awb string) {
	for _, p := range awbPatterns {
		if m := p.Re.FindString(line); m == line && m != "" {
			return p.Courier, m
		}
	}
	return "", ""
}

// readSKU consumes the product descriptor at the cursor, appending the
// following line when a multi-part marker (combo, unit count) is present.
// Returns the descriptor and lines consumed (0 when past the input).
func readSKU(lines []string, i int) (string, int) {
	if i >= len(lines) {
		return domain.Unknown, 0
	}
	sku := lines[i]
	n := 1
	if skuContinuationRe.MatchString(sku) && i+1 < len(lines) {
		sku += " " + lines[i+1]
		n = 2
	}
	return sku, n
}

// readQuantity consumes the quantity line at the cursor. Unparsable or
// absent quantities default to 1 without consuming the line, so a missing
// quantity slot never swallows the next record's anchor.
func readQuantity(lines []string, i int) (int, int) {
	if i >= len(lines) {
		return 1, 0
	}
	line := strings.TrimSpace(lines[i])
	if len(line) >= 11 && digitsOnlyRe.MatchString(line) {
		return 1, 0
	}
	q, err := strconv.Atoi(line)
	if err != nil || q <= 0 {
		return 1, 0
	}
	return q, 1
}
