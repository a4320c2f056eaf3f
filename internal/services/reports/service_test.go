package reports

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/videre/internal/common"
	"github.com/ternarybob/videre/internal/models"
	"github.com/ternarybob/videre/internal/services/stocks"
)

func pct(v float64) *float64 { return &v }

func TestContentOnlyReport(t *testing.T) {
	service := NewService(common.GetLogger())

	report := service.ContentOnlyReport("# Analysis\n\nBullish on semis.")
	assert.Equal(t, models.ReportFormatMarkdown, report.Format())
	assert.Equal(t, "# Analysis\n\nBullish on semis.", report.RawMarkdownContent)
	assert.NotEmpty(t, report.GeneratedAt)
}

func TestStockReport(t *testing.T) {
	service := NewService(common.GetLogger())

	analysis := &models.VideoAnalysis{
		Summary:         "Strong growth story, very bullish on the upside",
		InvestmentViews: []string{"buy the dip"},
	}
	stock := &models.StockData{
		Symbol:      "AAPL",
		LatestPrice: 200,
		PctChange:   pct(3.1),
		PriceTrend:  stocks.TrendModerateUp,
		Volatility:  8.5,
	}

	report := service.StockReport(analysis, stock)
	assert.Equal(t, models.ReportFormatStructured, report.Format())

	// trend +2, low volatility +1, positive sentiment +1 => buy/high
	require.NotNil(t, report.InvestmentRecommendation)
	assert.Equal(t, "buy", report.InvestmentRecommendation.Action)
	assert.Equal(t, "high", report.InvestmentRecommendation.ConfidenceLevel)

	risk, _ := report.Risk()
	require.NotNil(t, risk)
	assert.Equal(t, "low", risk.OverallRiskLevel)

	require.NotNil(t, report.PriceTargets)
	assert.Equal(t, 230.0, report.PriceTargets.Target12M)
	assert.Equal(t, 180.0, report.PriceTargets.StopLoss)
}

func TestStockReport_HighRisk(t *testing.T) {
	service := NewService(common.GetLogger())

	stock := &models.StockData{
		Symbol:      "MEME",
		LatestPrice: 10,
		PctChange:   pct(-12.0),
		PriceTrend:  stocks.TrendStrongDown,
		Volatility:  25,
	}

	report := service.StockReport(nil, stock)
	assert.Equal(t, "wait", report.InvestmentRecommendation.Action)

	risk, _ := report.Risk()
	require.NotNil(t, risk)
	assert.Equal(t, "high", risk.OverallRiskLevel)
	assert.NotEmpty(t, risk.SpecificRisks)
}

func TestBatchReport(t *testing.T) {
	service := NewService(common.GetLogger())

	analyses := []*models.VideoAnalysis{
		{Summary: "bullish growth", Companies: []string{"Apple", "Nvidia"}},
		{Summary: "optimistic upside", Companies: []string{"Apple"}, MarketEvents: []string{"rate cut"}},
	}
	report := service.BatchReport(analyses, []string{"video one summary", "video two summary"})

	assert.Equal(t, 2, report.VideoCount)
	assert.Len(t, report.IndividualAnalyses, 2)
	assert.Equal(t, "buy", report.InvestmentRecommendation.Action)
	assert.Contains(t, report.ConsolidatedInsights, "Apple")
	assert.Contains(t, report.ConsolidatedInsights, "rate cut")
	// duplicates collapse
	assert.Equal(t, 1, countOccurrences(report.ConsolidatedInsights, "Apple"))
}

func countOccurrences(s, sub string) int {
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
		}
	}
	return count
}

func TestAccuracyAnalysis(t *testing.T) {
	service := NewService(common.GetLogger())

	extracted := []models.ExtractedStock{
		{Symbol: "AAPL", Recommendation: "buy on weakness"},
		{Symbol: "TSLA", Recommendation: "bearish, avoid"},
		{Symbol: "NVDA", Recommendation: "watch closely"},
	}
	charts := []models.StockChart{
		{Symbol: "AAPL", PriceChange: pct(4.2)},
		{Symbol: "TSLA", PriceChange: pct(1.5)},
		{Symbol: "NVDA", PriceChange: pct(9.9)}, // neutral call, unscored
		{Symbol: "MSFT", Error: "symbol not found"},
	}

	accuracy := service.AccuracyAnalysis(extracted, charts)
	require.NotNil(t, accuracy)

	// AAPL bullish call matched the rise; TSLA bearish call missed
	assert.Equal(t, "1/2", accuracy.OverallScore)
	require.Len(t, accuracy.KeyFindings, 2)
	assert.Contains(t, accuracy.KeyFindings[0], "AAPL")
	assert.Contains(t, accuracy.KeyFindings[1], "TSLA")
}

func TestAccuracyAnalysis_NothingScorable(t *testing.T) {
	service := NewService(common.GetLogger())

	charts := []models.StockChart{
		{Symbol: "AAPL", Error: "data unavailable"},
		{Symbol: "TSLA"}, // no price change resolved
	}

	accuracy := service.AccuracyAnalysis([]models.ExtractedStock{
		{Symbol: "AAPL", Recommendation: "buy"},
	}, charts)
	assert.Nil(t, accuracy)
}

func TestFormatMarkdown_RawReport(t *testing.T) {
	service := NewService(common.GetLogger())

	record := &models.AnalysisRecord{
		CacheKey:     "abc",
		AnalysisType: models.AnalysisContentOnly,
		VideoURLs:    []string{"https://www.youtube.com/watch?v=one"},
		Report:       &models.Report{RawMarkdownContent: "# The Report Body"},
	}

	doc := service.FormatMarkdown(record)
	assert.Contains(t, doc, "# YouTube Video Analysis Report")
	assert.Contains(t, doc, "content analysis")
	assert.Contains(t, doc, "1. [https://www.youtube.com/watch?v=one]")
	assert.Contains(t, doc, "# The Report Body")
	assert.Contains(t, doc, "does not constitute investment advice")
}

func TestFormatMarkdown_StructuredWithStocks(t *testing.T) {
	service := NewService(common.GetLogger())

	report := &models.Report{
		ExecutiveSummary:         "Summary text",
		InvestmentRecommendation: &models.Recommendation{Action: "hold", ConfidenceLevel: "medium"},
		PriceTargets:             &models.PriceTargets{CurrentPrice: 100, Target12M: 115, StopLoss: 90, SupportLevel: 95},
	}
	report.SetRisk(&models.RiskAssessment{OverallRiskLevel: "medium", SpecificRisks: []string{"rate risk"}})

	stockData, err := json.Marshal([]models.StockData{{Symbol: "AAPL", Name: "Apple Inc."}, {Symbol: "XYZ"}})
	require.NoError(t, err)

	record := &models.AnalysisRecord{
		CacheKey:        "def",
		AnalysisType:    models.AnalysisStockExtraction,
		VideoURLs:       []string{"https://www.youtube.com/watch?v=two"},
		Report:          report,
		StockData:       stockData,
		ExtractedStocks: []models.ExtractedStock{{Symbol: "AAPL", Name: "Apple Inc."}},
	}

	doc := service.FormatMarkdown(record)
	assert.Contains(t, doc, "### Investment Recommendation")
	assert.Contains(t, doc, "**Action**: hold")
	assert.Contains(t, doc, "rate risk")
	assert.Contains(t, doc, "| $100.00 | $115.00 | $90.00 | $95.00 |")
	assert.Contains(t, doc, "- **AAPL**: Apple Inc.")
	assert.Contains(t, doc, "- **XYZ**: N/A")
	assert.Contains(t, doc, "### Extracted Stocks")
}

func TestFormatMarkdown_MissingReportBody(t *testing.T) {
	service := NewService(common.GetLogger())

	record := &models.AnalysisRecord{
		CacheKey:     "ghi",
		AnalysisType: models.AnalysisManualStock,
		VideoURLs:    []string{"u"},
		Report:       &models.Report{},
	}

	doc := service.FormatMarkdown(record)
	assert.Contains(t, doc, "_No report content available._")
}
