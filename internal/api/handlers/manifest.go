package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"manifest-scan-service/internal/api/dto"
	"manifest-scan-service/internal/domain"
	"manifest-scan-service/internal/parser"
	"manifest-scan-service/internal/ports"
	"manifest-scan-service/internal/services"
	"net/http"
	"path/filepath"
	"strings"
)

const maxUploadBytes = 50 << 20 // matches the original 50MB manifest cap

// ManifestHandler owns the manifest lifecycle endpoints: upload (parse and
// load), listing, stats, CSV export and reset.
type ManifestHandler struct {
	Parser    *parser.Parser
	Engine    *services.Reconciler
	Extractor ports.TextExtractor
}

// Upload accepts a multipart PDF or CSV manifest, parses it and replaces
// the live ledger with the result.
func (h *ManifestHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "no file part")
		return
	}
	defer file.Close()

	var records []domain.Shipment
	switch ext := strings.ToLower(filepath.Ext(hdr.Filename)); ext {
	case ".pdf":
		raw, err := io.ReadAll(file)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "could not read uploaded file")
			return
		}
		text, err := h.Extractor.ExtractText(r.Context(), raw)
		if err != nil {
			log.Printf("upload failed: file=%q err=%v", hdr.Filename, err)
			writeError(w, r, http.StatusBadRequest, "could not read PDF file")
			return
		}
		records, err = h.Parser.Parse(strings.NewReader(text), parser.SourcePDFText)
		if err != nil {
			h.writeParseError(w, r, hdr.Filename, err)
			return
		}
	case ".csv":
		records, err = h.Parser.Parse(file, parser.SourceCSV)
		if err != nil {
			h.writeParseError(w, r, hdr.Filename, err)
			return
		}
	default:
		writeError(w, r, http.StatusBadRequest, "unsupported file format, upload a PDF or CSV manifest")
		return
	}

	outcome, err := h.Engine.Load(r.Context(), records)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyManifest) {
			writeError(w, r, http.StatusBadRequest, "no valid AWB IDs found in the uploaded file")
			return
		}
		log.Printf("load manifest failed: file=%q err=%v", hdr.Filename, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.UploadResponse{
		Success:    true,
		Message:    fmt.Sprintf("Successfully processed %d orders", outcome.Stats.Total),
		ManifestID: outcome.ManifestID,
		Stats:      statsResponse(outcome.Stats),
	})
}

func (h *ManifestHandler) writeParseError(w http.ResponseWriter, r *http.Request, filename string, err error) {
	log.Printf("parse manifest failed: file=%q err=%v", filename, err)
	if errors.Is(err, domain.ErrEmptyManifest) {
		writeError(w, r, http.StatusBadRequest, "no valid data found in the uploaded file")
		return
	}
	if errors.Is(err, domain.ErrSourceUnreadable) {
		writeError(w, r, http.StatusBadRequest, "could not read the uploaded file")
		return
	}
	writeError(w, r, http.StatusBadRequest, "could not parse the uploaded file")
}

// Orders lists the full ledger in row order.
func (h *ManifestHandler) Orders(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	rows := h.Engine.Shipments()
	res := dto.ListShipmentsResponse{
		Shipments: make([]dto.ShipmentResponse, 0, len(rows)),
	}
	for _, rec := range rows {
		res.Shipments = append(res.Shipments, dto.ShipmentResponse{
			OrderID:     rec.OrderID,
			AWBID:       rec.AWBID,
			Courier:     rec.Courier,
			SKU:         rec.SKU,
			Qty:         rec.Quantity,
			Status:      string(rec.Status),
			ScannedTime: rec.ScannedTime,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Stats reports the aggregate ledger counts.
func (h *ManifestHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, r, http.StatusOK, statsResponse(h.Engine.Stats()))
}

// Export streams the ledger back as a CSV attachment.
func (h *ManifestHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="orders_export.csv"`)
	if err := h.Engine.Export(w); err != nil {
		// Headers are already written; all we can do is log.
		log.Printf("export failed: %v", err)
	}
}

// Reset clears the ledger and its persisted copy.
func (h *ManifestHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	if err := h.Engine.Reset(r.Context()); err != nil {
		log.Printf("reset failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"success": true, "message": "Data reset successfully"})
}
