package api

import (
	"manifest-scan-service/internal/api/handlers"
	"manifest-scan-service/internal/parser"
	"manifest-scan-service/internal/ports"
	"manifest-scan-service/internal/services"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(p *parser.Parser, engine *services.Reconciler, extractor ports.TextExtractor) http.Handler {
	mux := http.NewServeMux()

	manifestHandler := &handlers.ManifestHandler{
		Parser:    p,
		Engine:    engine,
		Extractor: extractor,
	}
	scanHandler := &handlers.ScanHandler{Engine: engine}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/upload", manifestHandler.Upload)
	mux.HandleFunc("/scan", scanHandler.Scan)
	mux.HandleFunc("/delete", scanHandler.Delete)
	mux.HandleFunc("/reset", manifestHandler.Reset)
	mux.HandleFunc("/export", manifestHandler.Export)
	mux.HandleFunc("/api/stats", manifestHandler.Stats)
	mux.HandleFunc("/api/orders", manifestHandler.Orders)

	return loggingMiddleware(mux)
}
