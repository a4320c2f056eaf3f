package server

import (
	"net/http"

	"github.com/ternarybob/videre/internal/common"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Root service descriptor
	mux.HandleFunc("/", s.rootHandler)

	// Streaming analysis
	mux.HandleFunc("/analyze", s.app.AnalyzeHandler.AnalyzeHandler)
	mux.HandleFunc("/api/batch-analyze-selected", s.app.AnalyzeHandler.BatchAnalyzeHandler)

	// Channel listing and stock data
	mux.HandleFunc("/api/channel-videos", s.app.VideoHandler.ChannelVideosHandler)
	mux.HandleFunc("/api/stock-data", s.app.StockHandler.StockDataHandler)
	mux.HandleFunc("/api/extract-stocks-chart", s.app.ExtractHandler.ExtractStocksChartHandler)

	// Report downloads (path carries the cache key)
	mux.HandleFunc("/api/download-markdown/", s.app.DownloadHandler.DownloadMarkdownHandler)
	mux.HandleFunc("/api/download-pdf/", s.app.DownloadHandler.DownloadPDFHandler)

	// WebSocket log feed
	mux.HandleFunc("/ws/logs", s.app.LogHub.HandleWebSocket)

	// System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/shutdown", s.ShutdownHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// rootHandler answers the bare root with service identification and
// defers everything else to the JSON 404.
func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.app.APIHandler.NotFoundHandler(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"service":"videre","version":"` + common.GetVersion() + `"}`))
}
