package analyzer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/videre/internal/common"
	"github.com/ternarybob/videre/internal/interfaces"
	"github.com/ternarybob/videre/internal/models"
	"github.com/ternarybob/videre/internal/services/llm"
	"github.com/ternarybob/videre/internal/services/reports"
	"github.com/ternarybob/videre/internal/storage/badger"
)

type fakeProvider struct {
	analysisText   string
	extractionText string
	err            error
	videoCalls     int
}

func (f *fakeProvider) GenerateContent(ctx context.Context, req *llm.ContentRequest) (*llm.ContentResponse, error) {
	return &llm.ContentResponse{Text: f.analysisText}, f.err
}

func (f *fakeProvider) GenerateContentStream(ctx context.Context, req *llm.ContentRequest, onDelta func(string)) (*llm.ContentResponse, error) {
	return f.GenerateContent(ctx, req)
}

func (f *fakeProvider) AnalyzeVideo(ctx context.Context, videoURL, prompt string, onDelta func(string)) (string, error) {
	f.videoCalls++
	if f.err != nil {
		return "", f.err
	}
	text := f.analysisText
	if f.extractionText != "" && prompt == extractionPrompt {
		text = f.extractionText
	}
	if onDelta != nil {
		onDelta(text)
	}
	return text, nil
}

func (f *fakeProvider) Close() error { return nil }

type fakeStocks struct {
	data map[string]*models.StockData
	err  error
}

func (f *fakeStocks) GetStockData(ctx context.Context, symbol string, days int) (*models.StockData, error) {
	return f.lookup(symbol)
}

func (f *fakeStocks) GetStockDataRange(ctx context.Context, symbol, start, end string) (*models.StockData, error) {
	return f.lookup(symbol)
}

func (f *fakeStocks) lookup(symbol string) (*models.StockData, error) {
	if f.err != nil {
		return nil, f.err
	}
	if data, ok := f.data[symbol]; ok {
		copied := *data
		return &copied, nil
	}
	return nil, fmt.Errorf("no price data found for symbol %s", symbol)
}

func newTestService(t *testing.T, provider llm.Provider, stockService interfaces.StockService) *Service {
	t.Helper()

	db, err := badger.NewBadgerDB(common.GetLogger(), &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	config := common.NewDefaultConfig()
	return NewService(
		provider,
		stockService,
		badger.NewAnalysisStorage(db, common.GetLogger()),
		reports.NewService(common.GetLogger()),
		&config.Analysis,
		common.GetLogger(),
	)
}

func collect(events *[]models.StreamEvent) Emitter {
	return func(event models.StreamEvent) {
		*events = append(*events, event)
	}
}

func eventsOfType(events []models.StreamEvent, eventType string) []models.StreamEvent {
	var out []models.StreamEvent
	for _, e := range events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func TestAnalyzeContentOnly(t *testing.T) {
	provider := &fakeProvider{analysisText: "# Report\n\nThe thesis is bullish on growth stocks."}
	service := newTestService(t, provider, &fakeStocks{})

	var events []models.StreamEvent
	err := service.Analyze(t.Context(), &models.AnalyzeRequest{
		VideoURL:     "https://www.youtube.com/watch?v=abc",
		AnalysisType: models.AnalysisContentOnly,
	}, collect(&events))
	require.NoError(t, err)

	results := eventsOfType(events, models.EventResult)
	require.Len(t, results, 1)
	result := results[0]

	assert.True(t, result.Success)
	assert.Equal(t, models.AnalysisContentOnly, result.AnalysisType)
	assert.False(t, result.FromCache)
	assert.NotEmpty(t, result.CacheKey)
	require.NotNil(t, result.Report)
	assert.Equal(t, models.ReportFormatMarkdown, result.Report.Format())
	require.NotNil(t, result.VideoAnalysis)
	assert.Contains(t, result.VideoAnalysis.Summary, "bullish")

	// Progress runs 0 -> 100
	statuses := eventsOfType(events, models.EventStatus)
	require.NotEmpty(t, statuses)
	assert.Equal(t, 0.0, *statuses[0].Progress)
	assert.Equal(t, 100.0, *statuses[len(statuses)-1].Progress)
}

func TestAnalyzeContentOnly_SecondRunFromCache(t *testing.T) {
	provider := &fakeProvider{analysisText: "# Report\n\nBody."}
	service := newTestService(t, provider, &fakeStocks{})

	req := &models.AnalyzeRequest{
		VideoURL:     "https://www.youtube.com/watch?v=abc",
		AnalysisType: models.AnalysisContentOnly,
	}

	var first []models.StreamEvent
	require.NoError(t, service.Analyze(t.Context(), req, collect(&first)))

	var second []models.StreamEvent
	require.NoError(t, service.Analyze(t.Context(), req, collect(&second)))

	results := eventsOfType(second, models.EventResult)
	require.Len(t, results, 1)
	assert.True(t, results[0].FromCache)
	assert.Equal(t, eventsOfType(first, models.EventResult)[0].CacheKey, results[0].CacheKey)

	// The model was only consulted on the first run
	assert.Equal(t, 1, provider.videoCalls)
}

func TestAnalyzeStockExtraction(t *testing.T) {
	provider := &fakeProvider{
		analysisText: "# Report\n\nDiscussion of large caps.",
		extractionText: `Here you go:
{"extracted_stocks": [{"symbol": "AAPL", "name": "Apple Inc.", "confidence": "high", "recommendation": "positive"},
{"symbol": "FAKE", "name": "Fake Corp", "confidence": "low", "recommendation": "neutral"}],
"summary": "The video mostly discusses Apple."}`,
	}
	change := 1.5
	stockService := &fakeStocks{data: map[string]*models.StockData{
		"AAPL": {Symbol: "AAPL", LatestPrice: 200, PctChange: &change, Period: "30 days"},
	}}
	service := newTestService(t, provider, stockService)

	var events []models.StreamEvent
	err := service.Analyze(t.Context(), &models.AnalyzeRequest{
		VideoURL:     "https://www.youtube.com/watch?v=xyz",
		AnalysisType: models.AnalysisStockExtraction,
	}, collect(&events))
	require.NoError(t, err)

	results := eventsOfType(events, models.EventResult)
	require.Len(t, results, 1)
	result := results[0]

	assert.Len(t, result.ExtractedStocks, 2)
	assert.Equal(t, "The video mostly discusses Apple.", result.VideoAnalysis.Summary)

	// FAKE failed to resolve, so the data array carries only AAPL
	stocks, single, err := result.StockDataList()
	require.NoError(t, err)
	assert.False(t, single)
	require.Len(t, stocks, 1)
	assert.Equal(t, "AAPL", stocks[0].Symbol)

	// The failed fetch surfaced as a warning log, not an error
	warned := false
	for _, e := range eventsOfType(events, models.EventLog) {
		if e.LogType == models.LogTypeWarning {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestAnalyzeStockExtraction_NoStocksFound(t *testing.T) {
	provider := &fakeProvider{
		analysisText:   "irrelevant",
		extractionText: `{"extracted_stocks": [], "summary": "no stocks"}`,
	}
	service := newTestService(t, provider, &fakeStocks{})

	var events []models.StreamEvent
	err := service.Analyze(t.Context(), &models.AnalyzeRequest{
		VideoURL:     "https://www.youtube.com/watch?v=xyz",
		AnalysisType: models.AnalysisStockExtraction,
	}, collect(&events))
	require.Error(t, err)

	errors := eventsOfType(events, models.EventError)
	require.Len(t, errors, 1)
	assert.Contains(t, errors[0].Message, "identifiable stocks")
	assert.Empty(t, eventsOfType(events, models.EventResult))
}

func TestAnalyzeManualStock(t *testing.T) {
	provider := &fakeProvider{analysisText: "# Report\n\nNeutral take."}
	change := -2.5
	stockService := &fakeStocks{data: map[string]*models.StockData{
		"TSLA": {Symbol: "TSLA", LatestPrice: 250, PctChange: &change, Period: "30 days"},
	}}
	service := newTestService(t, provider, stockService)

	var events []models.StreamEvent
	err := service.Analyze(t.Context(), &models.AnalyzeRequest{
		VideoURL:     "https://www.youtube.com/watch?v=abc",
		AnalysisType: models.AnalysisManualStock,
		StockSymbol:  "TSLA",
	}, collect(&events))
	require.NoError(t, err)

	result := eventsOfType(events, models.EventResult)[0]
	assert.Equal(t, models.AnalysisManualStock, result.AnalysisType)

	// Manual analysis ships a single object
	stocks, single, err := result.StockDataList()
	require.NoError(t, err)
	assert.True(t, single)
	require.Len(t, stocks, 1)
	assert.Equal(t, "TSLA", stocks[0].Symbol)
	assert.Equal(t, models.ReportFormatStructured, result.Report.Format())
}

func TestAnalyzeManualStock_DistinctCacheKeysPerSymbol(t *testing.T) {
	provider := &fakeProvider{analysisText: "# Report\n\nBody."}
	change := 1.0
	stockService := &fakeStocks{data: map[string]*models.StockData{
		"AAPL": {Symbol: "AAPL", LatestPrice: 1, PctChange: &change},
		"TSLA": {Symbol: "TSLA", LatestPrice: 1, PctChange: &change},
	}}
	service := newTestService(t, provider, stockService)

	run := func(symbol string) string {
		var events []models.StreamEvent
		require.NoError(t, service.Analyze(t.Context(), &models.AnalyzeRequest{
			VideoURL:     "https://www.youtube.com/watch?v=abc",
			AnalysisType: models.AnalysisManualStock,
			StockSymbol:  symbol,
		}, collect(&events)))
		return eventsOfType(events, models.EventResult)[0].CacheKey
	}

	assert.NotEqual(t, run("AAPL"), run("TSLA"))
}

func TestAnalyzeBatch(t *testing.T) {
	provider := &fakeProvider{analysisText: "# Report\n\nOptimistic upside across the board."}
	service := newTestService(t, provider, &fakeStocks{})

	videos := []models.Video{
		{ID: "a", Title: "One", URL: "https://www.youtube.com/watch?v=a"},
		{ID: "b", Title: "Two", URL: "https://www.youtube.com/watch?v=b"},
	}

	var events []models.StreamEvent
	err := service.AnalyzeBatch(t.Context(), &models.BatchAnalyzeRequest{SelectedVideos: videos}, collect(&events))
	require.NoError(t, err)

	result := eventsOfType(events, models.EventResult)[0]
	require.NotNil(t, result.Report)
	assert.Equal(t, 2, result.Report.VideoCount)
	assert.Len(t, result.Report.IndividualAnalyses, 2)
	assert.Equal(t, 2, provider.videoCalls)
}

func TestAnalyzeBatch_RejectsOverLimit(t *testing.T) {
	service := newTestService(t, &fakeProvider{}, &fakeStocks{})

	videos := make([]models.Video, 11)
	for i := range videos {
		videos[i] = models.Video{ID: fmt.Sprintf("v%d", i), URL: fmt.Sprintf("https://www.youtube.com/watch?v=v%d", i)}
	}

	var events []models.StreamEvent
	err := service.AnalyzeBatch(t.Context(), &models.BatchAnalyzeRequest{SelectedVideos: videos}, collect(&events))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limited to 10 videos")
	require.Len(t, eventsOfType(events, models.EventError), 1)
}

func TestExtractStocksChart(t *testing.T) {
	provider := &fakeProvider{
		analysisText:   "# Report\n\nBody.",
		extractionText: `{"extracted_stocks": [{"symbol": "AAPL", "name": "Apple Inc.", "recommendation": "buy"}], "summary": "s"}`,
	}
	change := 2.0
	stockService := &fakeStocks{data: map[string]*models.StockData{
		"AAPL": {Symbol: "AAPL", LatestPrice: 210, PctChange: &change, Period: "30 days"},
	}}
	service := newTestService(t, provider, stockService)

	var events []models.StreamEvent
	require.NoError(t, service.Analyze(t.Context(), &models.AnalyzeRequest{
		VideoURL:     "https://www.youtube.com/watch?v=xyz",
		AnalysisType: models.AnalysisStockExtraction,
	}, collect(&events)))
	cacheKey := eventsOfType(events, models.EventResult)[0].CacheKey

	result, err := service.ExtractStocksChart(t.Context(), &models.ExtractStocksRequest{CacheKey: cacheKey})
	require.NoError(t, err)
	require.Len(t, result.StockCharts, 1)
	assert.Equal(t, 210.0, result.StockCharts[0].CurrentPrice)
	require.NotNil(t, result.StockCharts[0].PriceChange)
	assert.Equal(t, 2.0, *result.StockCharts[0].PriceChange)

	// The buy call matched the positive move
	require.NotNil(t, result.AccuracyAnalysis)
	assert.Equal(t, "1/1", result.AccuracyAnalysis.OverallScore)
}

func TestExtractStocksChart_UnknownKey(t *testing.T) {
	service := newTestService(t, &fakeProvider{}, &fakeStocks{})

	_, err := service.ExtractStocksChart(t.Context(), &models.ExtractStocksRequest{CacheKey: "missing"})
	assert.ErrorContains(t, err, "no analysis found")
}

func TestParseExtractionResult(t *testing.T) {
	result, err := parseExtractionResult("```json\n{\"extracted_stocks\": [{\"symbol\": \"NVDA\"}], \"summary\": \"s\"}\n```")
	require.NoError(t, err)
	require.Len(t, result.ExtractedStocks, 1)
	assert.Equal(t, "NVDA", result.ExtractedStocks[0].Symbol)

	_, err = parseExtractionResult("no json at all")
	assert.Error(t, err)
}

func TestFirstParagraph(t *testing.T) {
	raw := "# Title\n\n**Report date:** today\n\n## 1. Executive Summary\nThe core thesis is bullish.\nIt continues here.\n\nMore text."
	assert.Equal(t, "The core thesis is bullish. It continues here.", firstParagraph(raw))
}
