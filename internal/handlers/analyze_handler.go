package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/common"
	"github.com/ternarybob/videre/internal/models"
	"github.com/ternarybob/videre/internal/services/analyzer"
)

// AnalyzeHandler serves the streaming analysis endpoints
type AnalyzeHandler struct {
	analyzer *analyzer.Service
	validate *validator.Validate
	logHub   *LogHub
	logger   arbor.ILogger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(analyzerService *analyzer.Service, logHub *LogHub) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzerService,
		validate: validator.New(),
		logHub:   logHub,
		logger:   common.GetLogger(),
	}
}

// AnalyzeHandler handles POST /analyze. The response is an event stream
// of status, log and result records; request validation failures are
// returned as plain JSON before streaming starts.
func (h *AnalyzeHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.AnalyzeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.AnalysisType == "" {
		req.AnalysisType = models.AnalysisContentOnly
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid analysis request: "+err.Error())
		return
	}

	emit, err := newStreamEmitter(w, h.logger)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	runID := common.NewRunID()
	h.logger.Info().
		Str("run_id", runID).
		Str("video_url", req.VideoURL).
		Str("analysis_type", string(req.AnalysisType)).
		Msg("Analysis started")

	if err := h.analyzer.Analyze(r.Context(), &req, h.mirrored(emit)); err != nil {
		h.logger.Warn().Str("run_id", runID).Err(err).Msg("Analysis finished with error")
	}
}

// BatchAnalyzeHandler handles POST /api/batch-analyze-selected.
// Unlike /analyze this endpoint answers with a single JSON document;
// pipeline progress is mirrored to the websocket log feed instead of a
// response stream. The selection cap rejects oversized requests with a
// plain 400.
func (h *AnalyzeHandler) BatchAnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.BatchAnalyzeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid batch request: "+err.Error())
		return
	}

	runID := common.NewRunID()
	h.logger.Info().
		Str("run_id", runID).
		Int("videos", len(req.SelectedVideos)).
		Msg("Batch analysis started")

	var result *models.StreamEvent
	collect := func(event models.StreamEvent) {
		if event.Type == models.EventResult {
			copied := event
			result = &copied
		}
	}

	err := h.analyzer.AnalyzeBatch(r.Context(), &req, h.mirrored(collect))
	if err != nil {
		h.logger.Warn().Str("run_id", runID).Err(err).Msg("Batch analysis failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result == nil || result.Report == nil {
		WriteError(w, http.StatusInternalServerError, "Batch analysis produced no report")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"report":      result.Report,
		"cache_key":   result.CacheKey,
		"video_count": result.Report.VideoCount,
		"from_cache":  result.FromCache,
	})
}

// mirrored forwards every emitted event to the wrapped emitter and
// mirrors log and status events to the websocket log hub.
func (h *AnalyzeHandler) mirrored(emit analyzer.Emitter) analyzer.Emitter {
	if h.logHub == nil {
		return emit
	}
	return func(event models.StreamEvent) {
		emit(event)
		if event.Type == models.EventLog || event.Type == models.EventStatus {
			h.logHub.Broadcast(event)
		}
	}
}
