package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/videre/internal/models"
)

func TestRender_MissingReportAbortsWithPlaceholder(t *testing.T) {
	view := Render(&models.StreamEvent{
		Type:         models.EventResult,
		AnalysisType: models.AnalysisContentOnly,
	})

	require.True(t, view.Incomplete)
	assert.Equal(t, PlaceholderIncomplete, view.Report.Placeholder)
	// No further field access: everything else stays zero
	assert.Empty(t, view.Summary)
	assert.Empty(t, view.Stocks)
	assert.Empty(t, view.Companies)
}

func TestRender_RawMarkdownClearsStructuredSections(t *testing.T) {
	pct := 3.5
	event := &models.StreamEvent{
		Type:         models.EventResult,
		AnalysisType: models.AnalysisManualStock,
		Report: &models.Report{
			RawMarkdownContent: "# Verdict\n\nHold.",
			// Structured leftovers must not leak into the view
			InvestmentRecommendation: &models.Recommendation{Action: "buy"},
			ExecutiveSummary:         "ignored",
		},
	}
	require.NoError(t, event.SetStockData(models.StockData{
		Symbol:      "AAPL",
		LatestPrice: 190.5,
		PctChange:   &pct,
	}))

	view := Render(event)

	require.False(t, view.Incomplete)
	assert.Equal(t, models.ReportFormatMarkdown, view.Report.Format)
	assert.Equal(t, "# Verdict\n\nHold.", view.Report.Markdown)
	assert.Nil(t, view.Report.Recommendation)
	assert.Nil(t, view.Report.PriceTargets)
	assert.Empty(t, view.Report.ExecutiveSummary)

	require.Len(t, view.Stocks, 1)
	assert.True(t, view.SingleStock)
	assert.Equal(t, "+3.50%", view.Stocks[0].PctChange)
}

func TestRender_StructuredReport(t *testing.T) {
	report := &models.Report{
		ExecutiveSummary:         "Strong quarter.",
		InvestmentRecommendation: &models.Recommendation{Action: "buy", ConfidenceLevel: "high"},
		PriceTargets:             &models.PriceTargets{CurrentPrice: 100, Target12M: 115},
	}
	report.SetRisk(&models.RiskAssessment{OverallRiskLevel: "medium"})

	view := Render(&models.StreamEvent{
		Type:         models.EventResult,
		AnalysisType: models.AnalysisManualStock,
		Report:       report,
	})

	assert.Equal(t, models.ReportFormatStructured, view.Report.Format)
	assert.Equal(t, "Strong quarter.", view.Report.ExecutiveSummary)
	require.NotNil(t, view.Report.Recommendation)
	assert.Equal(t, "buy", view.Report.Recommendation.Action)
	require.NotNil(t, view.Report.Risk)
	assert.Equal(t, "medium", view.Report.Risk.OverallRiskLevel)
	require.NotNil(t, view.Report.PriceTargets)
}

func TestRender_LegacyReportPlaceholderSummary(t *testing.T) {
	view := Render(&models.StreamEvent{
		Type:         models.EventResult,
		AnalysisType: models.AnalysisContentOnly,
		Report: &models.Report{
			InvestmentLogic: "Buy the dip.",
			KeyTakeaways:    "Dips recur.",
		},
	})

	assert.Equal(t, models.ReportFormatLegacy, view.Report.Format)
	assert.Equal(t, PlaceholderProcessing, view.Report.ExecutiveSummary)
	assert.Equal(t, "Buy the dip.", view.Report.InvestmentLogic)
	assert.Equal(t, "Dips recur.", view.Report.KeyTakeaways)
}

func TestRender_EmptyReportShapesFallBack(t *testing.T) {
	view := Render(&models.StreamEvent{
		Type:   models.EventResult,
		Report: &models.Report{},
	})

	assert.Equal(t, models.ReportFormatUnknown, view.Report.Format)
	assert.Equal(t, PlaceholderProcessing, view.Report.Placeholder)
	assert.Equal(t, PlaceholderNoneFound, view.CompaniesNote)
	assert.Equal(t, PlaceholderNoneFound, view.MarketNote)
	assert.Equal(t, PlaceholderNoneFound, view.ViewsNote)
}

func TestRender_ExtractedStocksReplaceCompanies(t *testing.T) {
	event := &models.StreamEvent{
		Type:         models.EventResult,
		AnalysisType: models.AnalysisStockExtraction,
		Report:       &models.Report{RawMarkdownContent: "# Report"},
		VideoAnalysis: &models.VideoAnalysis{
			Companies:    []string{"Apple"},
			MarketEvents: []string{"Fed meeting"},
		},
		ExtractedStocks: []models.ExtractedStock{
			{Symbol: "AAPL", Name: "Apple Inc", Confidence: "high"},
		},
	}

	view := Render(event)

	require.Len(t, view.ExtractedStocks, 1)
	assert.Empty(t, view.Companies, "extracted stocks take over the section")
	assert.Equal(t, []string{"Fed meeting"}, view.MarketEvents)
	assert.Equal(t, PlaceholderNoneFound, view.ViewsNote)
}

func TestRender_ContentOnlySkipsStockSection(t *testing.T) {
	event := &models.StreamEvent{
		Type:         models.EventResult,
		AnalysisType: models.AnalysisContentOnly,
		Report:       &models.Report{RawMarkdownContent: "# Report"},
	}
	require.NoError(t, event.SetStockData([]models.StockData{{Symbol: "AAPL"}}))

	view := Render(event)
	assert.Empty(t, view.Stocks, "stock section only renders for stock analysis types")
}

func TestFormatPctChange(t *testing.T) {
	up := 3.456
	down := -2.0
	zero := 0.0

	tests := []struct {
		name     string
		pct      *float64
		expected string
	}{
		{"positive gets explicit sign", &up, "+3.46%"},
		{"negative", &down, "-2.00%"},
		{"zero is a real value", &zero, "+0.00%"},
		{"absent is unavailable, never zero", nil, PlaceholderUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPctChange(tt.pct))
		})
	}
}
