package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"manifest-scan-service/internal/api/dto"
	"manifest-scan-service/internal/domain"
	"manifest-scan-service/internal/services"
	"net/http"
	"strings"
)

// ScanHandler exposes the barcode reconciliation endpoints.
type ScanHandler struct {
	Engine *services.Reconciler
}

// Scan applies one barcode scan. Re-scans of terminal records come back as
// success=false with the current status; unmatched barcodes come back as
// success=true with confirm=true so the operator can be prompted.
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAWBRequest(w, r)
	if !ok {
		return
	}

	outcome, err := h.Engine.Scan(r.Context(), req.AWBID)
	if err != nil {
		if errors.Is(err, domain.ErrNoManifest) {
			writeError(w, r, http.StatusConflict, "no manifest loaded, upload a file first")
			return
		}
		log.Printf("scan failed: awb=%q err=%v", req.AWBID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ScanResponse{
		Success: !outcome.Already,
		Status:  string(outcome.Status),
		Already: outcome.Already,
		Confirm: outcome.Synthesized,
		Stats:   statsResponse(outcome.Stats),
	}
	if outcome.Already {
		switch outcome.Status {
		case domain.StatusCancelled:
			res.Message = "This item was previously cancelled."
		default:
			res.Message = fmt.Sprintf("Already %s", outcome.Status)
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Delete removes every ledger row carrying the given AWB id.
func (h *ScanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAWBRequest(w, r)
	if !ok {
		return
	}

	outcome, err := h.Engine.Delete(r.Context(), req.AWBID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, r, http.StatusNotFound, dto.DeleteResponse{
				Success: false,
				Message: fmt.Sprintf("AWB ID %s not found", strings.TrimSpace(req.AWBID)),
			})
			return
		}
		log.Printf("delete failed: awb=%q err=%v", req.AWBID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DeleteResponse{
		Success: true,
		Removed: outcome.Removed,
		Message: fmt.Sprintf("AWB ID %s deleted successfully.", strings.TrimSpace(req.AWBID)),
		Stats:   statsResponse(outcome.Stats),
	})
}

func decodeAWBRequest(w http.ResponseWriter, r *http.Request) (dto.ScanRequest, bool) {
	var req dto.ScanRequest

	if !requireMethod(w, r, http.MethodPost) {
		return req, false
	}

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return req, false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return req, false
	}

	if strings.TrimSpace(req.AWBID) == "" {
		writeError(w, r, http.StatusBadRequest, "awb_id is required")
		return req, false
	}

	return req, true
}
