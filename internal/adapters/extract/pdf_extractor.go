package extract

import (
	"bytes"
	"context"
	"fmt"
	"manifest-scan-service/internal/domain"

	"github.com/ledongthuc/pdf"
)

// PDFTextExtractor implements the TextExtractor port for PDF manifests.
// It only flattens embedded text; scanned images (OCR) are out of scope,
// and documents without a text layer simply yield no recognizable lines.
type PDFTextExtractor struct{}

func NewPDFTextExtractor() *PDFTextExtractor {
	return &PDFTextExtractor{}
}

func (e *PDFTextExtractor) ExtractText(ctx context.Context, raw []byte) (_ string, err error) {
	// The pdf package panics on some malformed cross-reference tables;
	// map that to the same unreadable-source error as a plain failure.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract pdf text: %w: %v", domain.ErrSourceUnreadable, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w: %v", domain.ErrSourceUnreadable, err)
	}

	var buf bytes.Buffer
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w: %v", domain.ErrSourceUnreadable, err)
	}
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("extract pdf text: %w: %v", domain.ErrSourceUnreadable, err)
	}

	return buf.String(), nil
}
