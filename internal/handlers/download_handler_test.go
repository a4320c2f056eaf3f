package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/videre/internal/common"
	"github.com/ternarybob/videre/internal/interfaces"
	"github.com/ternarybob/videre/internal/models"
	"github.com/ternarybob/videre/internal/services/pdf"
	"github.com/ternarybob/videre/internal/services/reports"
	"github.com/ternarybob/videre/internal/storage/badger"
)

func newTestDownloadHandler(t *testing.T) (*DownloadHandler, interfaces.AnalysisStorage) {
	t.Helper()

	db, err := badger.NewBadgerDB(common.GetLogger(), &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	storage := badger.NewAnalysisStorage(db, common.GetLogger())
	h := NewDownloadHandler(storage, reports.NewService(common.GetLogger()), pdf.NewService(common.GetLogger()))
	return h, storage
}

func TestDownloadMarkdownHandler(t *testing.T) {
	h, storage := newTestDownloadHandler(t)

	require.NoError(t, storage.Save(&models.AnalysisRecord{
		CacheKey:        "0123456789abcdef",
		AnalysisType:    models.AnalysisContentOnly,
		MarkdownContent: "# Stored Report\n\nBody text.",
	}))

	req := httptest.NewRequest("GET", "/api/download-markdown/0123456789abcdef", nil)
	rec := httptest.NewRecorder()

	h.DownloadMarkdownHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "video_analysis_01234567.md")
	assert.Contains(t, rec.Body.String(), "# Stored Report")
}

func TestDownloadMarkdownHandler_RebuildsMissingContent(t *testing.T) {
	h, storage := newTestDownloadHandler(t)

	require.NoError(t, storage.Save(&models.AnalysisRecord{
		CacheKey:     "rebuildkey",
		AnalysisType: models.AnalysisContentOnly,
		VideoURLs:    []string{"https://www.youtube.com/watch?v=abc"},
		Report:       &models.Report{RawMarkdownContent: "# Regenerated"},
	}))

	req := httptest.NewRequest("GET", "/api/download-markdown/rebuildkey", nil)
	rec := httptest.NewRecorder()

	h.DownloadMarkdownHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# Regenerated")
}

func TestDownloadPDFHandler(t *testing.T) {
	h, storage := newTestDownloadHandler(t)

	require.NoError(t, storage.Save(&models.AnalysisRecord{
		CacheKey:        "pdfkey01",
		AnalysisType:    models.AnalysisContentOnly,
		MarkdownContent: "# PDF Report\n\nSome **bold** text.",
	}))

	req := httptest.NewRequest("GET", "/api/download-pdf/pdfkey01", nil)
	rec := httptest.NewRecorder()

	h.DownloadPDFHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, len(rec.Body.Bytes()) > 4)
	assert.Equal(t, "%PDF", rec.Body.String()[:4])
}

func TestDownloadHandler_UnknownKeyReturnsJSON404(t *testing.T) {
	h, _ := newTestDownloadHandler(t)

	for _, path := range []string{
		"/api/download-markdown/missing",
		"/api/download-pdf/missing",
	} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()

		if path == "/api/download-markdown/missing" {
			h.DownloadMarkdownHandler(rec, req)
		} else {
			h.DownloadPDFHandler(rec, req)
		}

		require.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), path)
		assert.Contains(t, rec.Body.String(), "No analysis found")
	}
}

func TestDownloadHandler_MissingKeyRejected(t *testing.T) {
	h, _ := newTestDownloadHandler(t)

	req := httptest.NewRequest("GET", "/api/download-markdown/", nil)
	rec := httptest.NewRecorder()

	h.DownloadMarkdownHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
