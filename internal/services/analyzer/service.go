// Package analyzer orchestrates the streaming analysis pipelines. Each
// pipeline emits progress, log and result events through an Emitter so
// transports can forward them incrementally.
package analyzer

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/common"
	"github.com/ternarybob/videre/internal/interfaces"
	"github.com/ternarybob/videre/internal/models"
	"github.com/ternarybob/videre/internal/services/llm"
	"github.com/ternarybob/videre/internal/services/reports"
	"github.com/ternarybob/videre/internal/storage/badger"
)

// Emitter receives pipeline events in order. Implementations must not
// block for long; the pipeline runs synchronously on the caller's
// goroutine.
type Emitter func(event models.StreamEvent)

// Service runs the analysis pipelines
type Service struct {
	provider llm.Provider
	stocks   interfaces.StockService
	storage  interfaces.AnalysisStorage
	reports  *reports.Service
	config   *common.AnalysisConfig
	logger   arbor.ILogger
}

// NewService creates a new analyzer service
func NewService(
	provider llm.Provider,
	stockService interfaces.StockService,
	storage interfaces.AnalysisStorage,
	reportService *reports.Service,
	config *common.AnalysisConfig,
	logger arbor.ILogger,
) *Service {
	return &Service{
		provider: provider,
		stocks:   stockService,
		storage:  storage,
		reports:  reportService,
		config:   config,
		logger:   logger,
	}
}

// Analyze runs the pipeline selected by the request's analysis type.
// Failures are reported as error events; the returned error mirrors the
// terminal event for callers that track outcomes.
func (s *Service) Analyze(ctx context.Context, req *models.AnalyzeRequest, emit Emitter) error {
	emit(models.StatusEvent(0, "Starting analysis..."))

	var err error
	switch req.AnalysisType {
	case models.AnalysisContentOnly:
		emit(models.StatusEvent(10, "Analyzing video content and investment logic"))
		err = s.analyzeContentOnly(ctx, req.VideoURL, emit)
	case models.AnalysisStockExtraction:
		emit(models.StatusEvent(10, "Extracting stocks and analyzing data"))
		err = s.analyzeStockExtraction(ctx, req, emit)
	case models.AnalysisManualStock:
		emit(models.StatusEvent(10, "Analyzing manually selected stock"))
		err = s.analyzeManualStock(ctx, req, emit)
	default:
		err = fmt.Errorf("unknown analysis type: %s", req.AnalysisType)
	}

	if err != nil {
		s.logger.Warn().Err(err).Str("video_url", req.VideoURL).Msg("Analysis pipeline failed")
		emit(models.LogEvent(fmt.Sprintf("Analysis failed: %s", err), models.LogTypeError))
		emit(models.ErrorEvent(err.Error()))
	}
	return err
}

// replayCached emits the cached result when one exists for the key.
// Returns true when the request was served from cache.
func (s *Service) replayCached(cacheKey string, emit Emitter) bool {
	record, err := s.storage.Get(cacheKey)
	if err != nil {
		if err != badger.ErrNotFound {
			s.logger.Warn().Err(err).Str("cache_key", cacheKey).Msg("Cache lookup failed")
		}
		return false
	}

	emit(models.LogEvent("Found cached result, returning directly", models.LogTypeInfo))
	emit(models.StatusEvent(100, "Result served from cache"))
	emit(models.StreamEvent{
		Type:            models.EventResult,
		Success:         true,
		AnalysisType:    record.AnalysisType,
		Report:          record.Report,
		VideoAnalysis:   record.VideoAnalysis,
		StockData:       record.StockData,
		ExtractedStocks: record.ExtractedStocks,
		CacheKey:        record.CacheKey,
		FromCache:       true,
	})
	return true
}

// save persists the completed analysis and its markdown document
func (s *Service) save(record *models.AnalysisRecord, emit Emitter) {
	emit(models.LogEvent("Saving analysis result to cache...", models.LogTypeInfo))
	record.MarkdownContent = s.reports.FormatMarkdown(record)
	if err := s.storage.Save(record); err != nil {
		// The result is still streamed; only the replay cache is lost.
		s.logger.Warn().Err(err).Str("cache_key", record.CacheKey).Msg("Failed to cache analysis result")
		emit(models.LogEvent("Failed to save result to cache", models.LogTypeWarning))
	}
}

// streamer adapts model text deltas into streaming log events
func streamer(emit Emitter) func(text string) {
	return func(text string) {
		emit(models.StreamingLogEvent("Receiving model output...", text))
	}
}

func (s *Service) analyzeContentOnly(ctx context.Context, videoURL string, emit Emitter) error {
	cacheKey := common.CacheKey(videoURL)
	if s.replayCached(cacheKey, emit) {
		return nil
	}

	emit(models.LogEvent("Analyzing video content...", models.LogTypeStep))
	raw, err := s.provider.AnalyzeVideo(ctx, videoURL, analysisPrompt(), streamer(emit))
	if err != nil {
		return err
	}

	emit(models.StatusEvent(80, "Generating report..."))
	emit(models.LogEvent("Generating content analysis report...", models.LogTypeInfo))

	report := s.reports.ContentOnlyReport(raw)
	analysis := parseVideoAnalysis(raw)

	emit(models.StatusEvent(100, "Analysis complete!"))

	record := &models.AnalysisRecord{
		CacheKey:      cacheKey,
		AnalysisType:  models.AnalysisContentOnly,
		VideoURLs:     []string{videoURL},
		Report:        report,
		VideoAnalysis: analysis,
	}
	s.save(record, emit)

	emit(models.StreamEvent{
		Type:          models.EventResult,
		Success:       true,
		AnalysisType:  models.AnalysisContentOnly,
		Report:        report,
		VideoAnalysis: analysis,
		CacheKey:      cacheKey,
	})
	return nil
}

func (s *Service) analyzeStockExtraction(ctx context.Context, req *models.AnalyzeRequest, emit Emitter) error {
	cacheKey := common.CacheKey(req.VideoURL)
	if s.replayCached(cacheKey, emit) {
		return nil
	}

	emit(models.StatusEvent(20, "Extracting stock information..."))
	emit(models.LogEvent("Extracting stocks mentioned in the video...", models.LogTypeStep))

	extractionRaw, err := s.provider.AnalyzeVideo(ctx, req.VideoURL, extractionPrompt, streamer(emit))
	if err != nil {
		return err
	}

	extraction, err := parseExtractionResult(extractionRaw)
	if err != nil {
		emit(models.LogEvent("Stock extraction failed", models.LogTypeError))
		return err
	}
	if len(extraction.ExtractedStocks) == 0 {
		emit(models.LogEvent("No explicit stocks detected in the video", models.LogTypeError))
		return fmt.Errorf("the video does not mention any identifiable stocks")
	}

	emit(models.StatusEvent(40, fmt.Sprintf("Found %d stocks", len(extraction.ExtractedStocks))))

	emit(models.LogEvent("Analyzing video content...", models.LogTypeStep))
	raw, err := s.provider.AnalyzeVideo(ctx, req.VideoURL, analysisPrompt(), streamer(emit))
	if err != nil {
		return err
	}
	analysis := parseVideoAnalysis(raw)
	if extraction.Summary != "" {
		analysis.Summary = extraction.Summary
	}
	for _, stock := range extraction.ExtractedStocks {
		if stock.Name != "" {
			analysis.Companies = append(analysis.Companies, stock.Name)
		}
	}

	emit(models.StatusEvent(60, "Fetching stock data..."))

	stockData := make([]models.StockData, 0, len(extraction.ExtractedStocks))
	total := len(extraction.ExtractedStocks)
	for i, stock := range extraction.ExtractedStocks {
		emit(models.LogEvent(fmt.Sprintf("Fetching %s stock data...", stock.Symbol), models.LogTypeInfo))

		data, fetchErr := s.fetchStockData(ctx, stock.Symbol, req.StartDate, req.EndDate)
		if fetchErr != nil {
			emit(models.LogEvent(fmt.Sprintf("Failed to fetch %s data: %s", stock.Symbol, fetchErr), models.LogTypeWarning))
		} else {
			if data.Name == "" {
				data.Name = stock.Name
			}
			stockData = append(stockData, *data)
		}

		progress := 60 + float64(i+1)*10/float64(total)
		emit(models.StatusEvent(progress, fmt.Sprintf("Fetched %d/%d stock data", i+1, total)))
	}

	emit(models.StatusEvent(80, "Generating consolidated report..."))
	report := s.reports.ExtractionReport(analysis, stockData, extraction.ExtractedStocks)

	emit(models.StatusEvent(100, "Analysis complete!"))

	record := &models.AnalysisRecord{
		CacheKey:        cacheKey,
		AnalysisType:    models.AnalysisStockExtraction,
		VideoURLs:       []string{req.VideoURL},
		Report:          report,
		VideoAnalysis:   analysis,
		ExtractedStocks: extraction.ExtractedStocks,
	}

	result := models.StreamEvent{
		Type:            models.EventResult,
		Success:         true,
		AnalysisType:    models.AnalysisStockExtraction,
		Report:          report,
		VideoAnalysis:   analysis,
		ExtractedStocks: extraction.ExtractedStocks,
		CacheKey:        cacheKey,
	}
	// The extraction pipeline always ships an array, even for one stock
	if err := result.SetStockData(stockData); err == nil {
		record.StockData = result.StockData
	}

	s.save(record, emit)
	emit(result)
	return nil
}

func (s *Service) analyzeManualStock(ctx context.Context, req *models.AnalyzeRequest, emit Emitter) error {
	if req.StockSymbol == "" {
		return fmt.Errorf("manual stock analysis requires a stock symbol")
	}

	dateRange := fmt.Sprintf("%dd", s.defaultDays())
	if req.StartDate != "" && req.EndDate != "" {
		dateRange = req.StartDate + "_" + req.EndDate
	}
	// The key covers symbol and range so different windows cache separately
	cacheKey := common.CacheKey(fmt.Sprintf("%s|%s|%s", req.VideoURL, req.StockSymbol, dateRange))
	if s.replayCached(cacheKey, emit) {
		return nil
	}

	emit(models.StatusEvent(30, "Analyzing video content..."))
	emit(models.LogEvent("Analyzing video content...", models.LogTypeStep))

	raw, err := s.provider.AnalyzeVideo(ctx, req.VideoURL, analysisPrompt(), streamer(emit))
	if err != nil {
		return err
	}
	analysis := parseVideoAnalysis(raw)

	emit(models.StatusEvent(60, fmt.Sprintf("Fetching %s stock data...", req.StockSymbol)))
	emit(models.LogEvent(fmt.Sprintf("Fetching %s stock data...", req.StockSymbol), models.LogTypeInfo))

	stockData, err := s.fetchStockData(ctx, req.StockSymbol, req.StartDate, req.EndDate)
	if err != nil {
		return err
	}

	emit(models.StatusEvent(80, "Generating investment report..."))
	emit(models.LogEvent("Generating investment report...", models.LogTypeInfo))

	report := s.reports.StockReport(analysis, stockData)

	emit(models.StatusEvent(100, "Analysis complete!"))

	record := &models.AnalysisRecord{
		CacheKey:      cacheKey,
		AnalysisType:  models.AnalysisManualStock,
		VideoURLs:     []string{req.VideoURL},
		Report:        report,
		VideoAnalysis: analysis,
	}

	result := models.StreamEvent{
		Type:          models.EventResult,
		Success:       true,
		AnalysisType:  models.AnalysisManualStock,
		Report:        report,
		VideoAnalysis: analysis,
		CacheKey:      cacheKey,
	}
	// Manual analysis ships a single stock object, not an array
	if err := result.SetStockData(stockData); err == nil {
		record.StockData = result.StockData
	}

	s.save(record, emit)
	emit(result)
	return nil
}

// AnalyzeBatch runs the consolidated pipeline over the selected videos.
// The selection cap is enforced here as well as at the transport layer.
func (s *Service) AnalyzeBatch(ctx context.Context, req *models.BatchAnalyzeRequest, emit Emitter) error {
	limit := s.maxBatchVideos()
	if len(req.SelectedVideos) == 0 {
		err := fmt.Errorf("no videos selected")
		emit(models.ErrorEvent(err.Error()))
		return err
	}
	if len(req.SelectedVideos) > limit {
		err := fmt.Errorf("batch analysis is limited to %d videos, got %d", limit, len(req.SelectedVideos))
		emit(models.ErrorEvent(err.Error()))
		return err
	}

	urls := make([]string, len(req.SelectedVideos))
	for i, video := range req.SelectedVideos {
		urls[i] = video.URL
	}

	emit(models.StatusEvent(0, fmt.Sprintf("Starting batch analysis of %d videos...", len(urls))))

	cacheKey := common.CacheKey(urls...)
	if s.replayCached(cacheKey, emit) {
		return nil
	}

	analyses := make([]*models.VideoAnalysis, 0, len(urls))
	summaries := make([]string, 0, len(urls))
	total := len(urls)

	for i, video := range req.SelectedVideos {
		progress := float64(i) * 80 / float64(total)
		emit(models.StatusEvent(progress, fmt.Sprintf("Analyzing video %d/%d: %s", i+1, total, video.Title)))
		emit(models.LogEvent(fmt.Sprintf("Analyzing video %d/%d...", i+1, total), models.LogTypeStep))

		raw, err := s.provider.AnalyzeVideo(ctx, video.URL, analysisPrompt(), streamer(emit))
		if err != nil {
			emit(models.LogEvent(fmt.Sprintf("Failed to analyze %s: %s", video.URL, err), models.LogTypeError))
			emit(models.ErrorEvent(err.Error()))
			return err
		}

		analysis := parseVideoAnalysis(raw)
		analyses = append(analyses, analysis)
		summaries = append(summaries, analysis.Summary)
	}

	emit(models.StatusEvent(80, "Generating consolidated report..."))
	emit(models.LogEvent("Generating consolidated report...", models.LogTypeInfo))

	report := s.reports.BatchReport(analyses, summaries)

	emit(models.StatusEvent(100, "Batch analysis complete!"))

	record := &models.AnalysisRecord{
		CacheKey:     cacheKey,
		AnalysisType: models.AnalysisContentOnly,
		VideoURLs:    urls,
		Report:       report,
	}
	s.save(record, emit)

	emit(models.StreamEvent{
		Type:         models.EventResult,
		Success:      true,
		AnalysisType: models.AnalysisContentOnly,
		Report:       report,
		CacheKey:     cacheKey,
	})
	return nil
}

// ExtractStocksChart resolves chart data for the stocks of a previously
// completed extraction analysis.
func (s *Service) ExtractStocksChart(ctx context.Context, req *models.ExtractStocksRequest) (*models.StockExtractionResult, error) {
	record, err := s.storage.Get(req.CacheKey)
	if err != nil {
		if err == badger.ErrNotFound {
			return nil, fmt.Errorf("no analysis found for cache key %s", req.CacheKey)
		}
		return nil, err
	}
	if len(record.ExtractedStocks) == 0 {
		return nil, fmt.Errorf("the cached analysis contains no extracted stocks")
	}

	result := &models.StockExtractionResult{
		ExtractedStocks: record.ExtractedStocks,
		StockCharts:     make([]models.StockChart, 0, len(record.ExtractedStocks)),
	}

	for _, stock := range record.ExtractedStocks {
		chart := models.StockChart{Symbol: stock.Symbol, Name: stock.Name}

		data, fetchErr := s.fetchStockData(ctx, stock.Symbol, req.StartDate, req.EndDate)
		if fetchErr != nil {
			chart.Error = fetchErr.Error()
		} else {
			chart.Period = data.Period
			chart.CurrentPrice = data.LatestPrice
			chart.PriceChange = data.PctChange
		}

		result.StockCharts = append(result.StockCharts, chart)
	}

	result.AccuracyAnalysis = s.reports.AccuracyAnalysis(record.ExtractedStocks, result.StockCharts)
	return result, nil
}

func (s *Service) fetchStockData(ctx context.Context, symbol, startDate, endDate string) (*models.StockData, error) {
	if startDate != "" && endDate != "" {
		return s.stocks.GetStockDataRange(ctx, symbol, startDate, endDate)
	}
	return s.stocks.GetStockData(ctx, symbol, s.defaultDays())
}

func (s *Service) defaultDays() int {
	if s.config != nil && s.config.DefaultDays > 0 {
		return s.config.DefaultDays
	}
	return 30
}

func (s *Service) maxBatchVideos() int {
	if s.config != nil && s.config.MaxBatchVideos > 0 {
		return s.config.MaxBatchVideos
	}
	return 10
}
