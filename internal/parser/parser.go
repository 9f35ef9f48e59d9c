package parser

import (
	"errors"
	"fmt"
	"io"
	"log"
	"manifest-scan-service/internal/domain"
	"regexp"
	"strings"
)

// SourceKind selects the parse path for one manifest.
type SourceKind string

const (
	// SourcePDFText is manifest text already extracted from a PDF.
	SourcePDFText SourceKind = "pdf_text"
	// SourceCSV is a tabular manifest with a header row.
	SourceCSV SourceKind = "csv"
)

// Layout recognizes one manifest shape at the current cursor position.
// Implementations return the candidate shipment and the number of lines the
// record's window consumed; ok=false leaves the cursor untouched for the
// next layout in priority order.
type Layout interface {
	Name() string
	TryMatch(lines []string, cursor int, st *ScanState) (domain.Shipment, int, bool)
}

// ScanState is the carried state of a single pass over a manifest.
// Courier holds the most recent "Courier : <name>" header and persists
// across records until overwritten.
type ScanState struct {
	Courier string
}

var courierHeaderRe = regexp.MustCompile(`^Courier\s*:\s*(.+)$`)

// Parser converts raw manifest text or CSV rows into an ordered sequence of
// shipment records. It never mutates a live ledger; every parse produces a
// fresh candidate sequence.
type Parser struct {
	layouts []Layout
}

// New builds a parser with the recognized layouts in fixed priority order:
// courier pattern-matched windows first, then generic fixed-offset windows,
// then single-line tabular rows.
func New() *Parser {
	return &Parser{
		layouts: []Layout{
			&CourierLayout{},
			&OffsetLayout{},
			&TabularLayout{},
		},
	}
}

// Parse dispatches on the source kind.
func (p *Parser) Parse(r io.Reader, kind SourceKind) ([]domain.Shipment, error) {
	switch kind {
	case SourceCSV:
		return p.ParseCSV(r)
	case SourcePDFText:
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("parse manifest: read source: %w", err)
		}
		return p.ParseText(string(b))
	default:
		return nil, fmt.Errorf("parse manifest: unsupported source kind %q", kind)
	}
}

// ParseText runs the line-scanning pass over extracted manifest text.
//
// A malformed record never aborts the parse: rejected windows advance the
// cursor by a single line and scanning resumes. A matched record advances
// the cursor past its whole window so interior lines are never re-matched
// as new anchors.
func (p *Parser) ParseText(text string) ([]domain.Shipment, error) {
	lines := splitLines(text)
	st := &ScanState{}

	records := make([]domain.Shipment, 0, 32)
	rejected := 0

	for i := 0; i < len(lines); {
		if m := courierHeaderRe.FindStringSubmatch(lines[i]); m != nil {
			st.Courier = strings.TrimSpace(m[1])
			i++
			continue
		}

		matched := false
		for _, layout := range p.layouts {
			rec, consumed, ok := layout.TryMatch(lines, i, st)
			if !ok {
				continue
			}

			if err := validateRecord(rec); err != nil {
				log.Printf("parser: layout=%s line=%d awb=%q rejected: %v", layout.Name(), i+1, rec.AWBID, err)
				rejected++
				matched = true
				consumed = 1
			} else {
				rec.AWBID = rec.Key()
				records = append(records, rec)
				matched = true
			}

			i += consumed
			break
		}

		if !matched {
			i++
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("parse manifest: scanned %d lines (%d rejected): %w", len(lines), rejected, domain.ErrEmptyManifest)
	}

	log.Printf("parser: lines=%d records=%d rejected=%d", len(lines), len(records), rejected)
	return records, nil
}

// validateRecord is the validity rule applied before any record is
// appended. A failing record is rejected and logged, never coerced.
func validateRecord(rec domain.Shipment) error {
	awb := rec.Key()
	if awb == "" {
		return errors.New("empty awb")
	}
	if awb == strings.TrimSpace(rec.OrderID) {
		return errors.New("awb equals order id")
	}
	if anchorShaped(awb) {
		return errors.New("awb looks like a bare order id")
	}
	return nil
}

// splitLines flattens manifest text into trimmed, non-empty lines. Blank
// lines carry no positional meaning in the recognized layouts.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}
