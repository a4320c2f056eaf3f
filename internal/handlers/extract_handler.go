package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/common"
	"github.com/ternarybob/videre/internal/models"
	"github.com/ternarybob/videre/internal/services/analyzer"
)

// ExtractHandler serves chart data for completed extraction analyses
type ExtractHandler struct {
	analyzer *analyzer.Service
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewExtractHandler creates a new extract handler
func NewExtractHandler(analyzerService *analyzer.Service) *ExtractHandler {
	return &ExtractHandler{
		analyzer: analyzerService,
		validate: validator.New(),
		logger:   common.GetLogger(),
	}
}

// ExtractStocksChartHandler handles POST /api/extract-stocks-chart.
// The request references a completed extraction analysis by cache key;
// the response resolves current chart data for its stocks.
func (h *ExtractHandler) ExtractStocksChartHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.ExtractStocksRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid extraction request: "+err.Error())
		return
	}

	result, err := h.analyzer.ExtractStocksChart(r.Context(), &req)
	if err != nil {
		h.logger.Warn().Err(err).Str("cache_key", req.CacheKey).Msg("Stock chart extraction failed")
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}
