package handlers

import (
	"encoding/json"
	"log"
	"manifest-scan-service/internal/api/dto"
	"manifest-scan-service/internal/domain"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

func statsResponse(st domain.Stats) dto.StatsResponse {
	return dto.StatsResponse{
		Total:     st.Total,
		Packed:    st.Packed,
		Pending:   st.Pending,
		Cancelled: st.Cancelled,
	}
}
