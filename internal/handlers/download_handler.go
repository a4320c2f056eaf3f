package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/common"
	"github.com/ternarybob/videre/internal/interfaces"
	"github.com/ternarybob/videre/internal/models"
	"github.com/ternarybob/videre/internal/services/reports"
)

// DownloadHandler serves stored analysis reports as file downloads
type DownloadHandler struct {
	storage interfaces.AnalysisStorage
	reports *reports.Service
	pdf     interfaces.PDFService
	logger  arbor.ILogger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(storage interfaces.AnalysisStorage, reportService *reports.Service, pdfService interfaces.PDFService) *DownloadHandler {
	return &DownloadHandler{
		storage: storage,
		reports: reportService,
		pdf:     pdfService,
		logger:  common.GetLogger(),
	}
}

// DownloadMarkdownHandler handles GET /api/download-markdown/{cache_key}
func (h *DownloadHandler) DownloadMarkdownHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	record, ok := h.lookup(w, r, "/api/download-markdown/")
	if !ok {
		return
	}

	content := record.MarkdownContent
	if content == "" {
		content = h.reports.FormatMarkdown(record)
	}

	filename := downloadFilename(record.CacheKey, "md")
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(content))
}

// DownloadPDFHandler handles GET /api/download-pdf/{cache_key}
func (h *DownloadHandler) DownloadPDFHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	record, ok := h.lookup(w, r, "/api/download-pdf/")
	if !ok {
		return
	}

	content := record.MarkdownContent
	if content == "" {
		content = h.reports.FormatMarkdown(record)
	}

	data, err := h.pdf.ConvertMarkdownToPDF(content, "YouTube Video Analysis Report")
	if err != nil {
		h.logger.Error().Err(err).Str("cache_key", record.CacheKey).Msg("PDF conversion failed")
		WriteError(w, http.StatusInternalServerError, "Failed to generate PDF: "+err.Error())
		return
	}

	filename := downloadFilename(record.CacheKey, "pdf")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// lookup extracts the cache key from the request path and loads the
// matching record, writing a JSON error when either step fails.
func (h *DownloadHandler) lookup(w http.ResponseWriter, r *http.Request, prefix string) (*models.AnalysisRecord, bool) {
	cacheKey := strings.TrimPrefix(r.URL.Path, prefix)
	cacheKey = strings.Trim(cacheKey, "/")
	if cacheKey == "" {
		WriteError(w, http.StatusBadRequest, "cache key is required")
		return nil, false
	}

	record, err := h.storage.Get(cacheKey)
	if err != nil {
		WriteError(w, http.StatusNotFound, "No analysis found for cache key")
		return nil, false
	}
	return record, true
}

func downloadFilename(cacheKey, ext string) string {
	short := cacheKey
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("video_analysis_%s.%s", short, ext)
}
