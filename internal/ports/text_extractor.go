package ports

import "context"

// Contract for pulling flattened plain text out of an uploaded document.
// Extraction failure surfaces as domain.ErrSourceUnreadable.
type TextExtractor interface {
	// Extract the document's text as one line sequence.
	ExtractText(ctx context.Context, raw []byte) (string, error)
}
