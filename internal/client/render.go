package client

import (
	"fmt"

	"github.com/ternarybob/videre/internal/models"
)

// Placeholder texts used when result fields are missing
const (
	PlaceholderIncomplete  = "Analysis data incomplete"
	PlaceholderProcessing  = "Report is still processing"
	PlaceholderNoneFound   = "None found"
	PlaceholderUnavailable = "data unavailable"
)

// ReportView is the projected report body, populated per the resolved
// report format. Only the fields for that format carry content.
type ReportView struct {
	Format models.ReportFormat

	// markdown format
	Markdown string

	// structured format
	ExecutiveSummary string
	Recommendation   *models.Recommendation
	Risk             *models.RiskAssessment
	RiskText         string
	PriceTargets     *models.PriceTargets

	// legacy format
	InvestmentLogic string
	KeyTakeaways    string

	Placeholder string
}

// StockView is one formatted stock entry
type StockView struct {
	Symbol      string
	Name        string
	Period      string
	LatestPrice float64
	PctChange   string
	PriceTrend  string
	Volatility  float64
}

// ResultView is the full projection of a result event into display
// sections
type ResultView struct {
	Incomplete bool

	Report ReportView

	// Video analysis section
	Summary         string
	ExtractedStocks []models.ExtractedStock
	Companies       []string
	CompaniesNote   string
	MarketEvents    []string
	MarketNote      string
	InvestmentViews []string
	ViewsNote       string

	// Stock data section
	Stocks      []StockView
	SingleStock bool

	FromCache bool
}

// Render projects a result event into display sections. A missing
// report aborts the projection: the view carries only the incomplete
// marker and no other field is inspected.
func Render(event *models.StreamEvent) *ResultView {
	if event == nil || event.Report == nil {
		return &ResultView{
			Incomplete: true,
			Report:     ReportView{Placeholder: PlaceholderIncomplete},
		}
	}

	view := &ResultView{
		Report:    renderReport(event.Report),
		FromCache: event.FromCache,
	}
	renderVideoAnalysis(view, event)
	renderStockData(view, event)
	return view
}

// renderReport resolves the report body in strict priority order:
// raw markdown, structured recommendation, legacy investment logic,
// generic placeholder.
func renderReport(report *models.Report) ReportView {
	view := ReportView{Format: report.Format()}

	switch view.Format {
	case models.ReportFormatMarkdown:
		// Recommendation, risk and price sections stay cleared
		view.Markdown = report.RawMarkdownContent
	case models.ReportFormatStructured:
		view.ExecutiveSummary = report.ExecutiveSummary
		view.Recommendation = report.InvestmentRecommendation
		view.Risk, view.RiskText = report.Risk()
		view.PriceTargets = report.PriceTargets
	case models.ReportFormatLegacy:
		view.ExecutiveSummary = report.ExecutiveSummary
		if view.ExecutiveSummary == "" {
			view.ExecutiveSummary = PlaceholderProcessing
		}
		view.InvestmentLogic = report.InvestmentLogic
		view.KeyTakeaways = report.KeyTakeaways
	default:
		view.Placeholder = PlaceholderProcessing
	}
	return view
}

func renderVideoAnalysis(view *ResultView, event *models.StreamEvent) {
	if event.VideoAnalysis != nil {
		view.Summary = event.VideoAnalysis.Summary
	}

	// Extracted stocks take over the companies section for extraction
	// runs; otherwise the free-text companies list renders as tags.
	if event.AnalysisType == models.AnalysisStockExtraction && len(event.ExtractedStocks) > 0 {
		view.ExtractedStocks = event.ExtractedStocks
	} else if event.VideoAnalysis != nil && len(event.VideoAnalysis.Companies) > 0 {
		view.Companies = event.VideoAnalysis.Companies
	} else {
		view.CompaniesNote = PlaceholderNoneFound
	}

	if event.VideoAnalysis != nil && len(event.VideoAnalysis.MarketEvents) > 0 {
		view.MarketEvents = event.VideoAnalysis.MarketEvents
	} else {
		view.MarketNote = PlaceholderNoneFound
	}

	if event.VideoAnalysis != nil && len(event.VideoAnalysis.InvestmentViews) > 0 {
		view.InvestmentViews = event.VideoAnalysis.InvestmentViews
	} else {
		view.ViewsNote = PlaceholderNoneFound
	}
}

func renderStockData(view *ResultView, event *models.StreamEvent) {
	if event.AnalysisType != models.AnalysisManualStock &&
		event.AnalysisType != models.AnalysisStockExtraction {
		return
	}

	stocks, single, err := event.StockDataList()
	if err != nil || len(stocks) == 0 {
		return
	}

	view.SingleStock = single
	for _, stock := range stocks {
		view.Stocks = append(view.Stocks, StockView{
			Symbol:      stock.Symbol,
			Name:        stock.Name,
			Period:      stock.Period,
			LatestPrice: stock.LatestPrice,
			PctChange:   FormatPctChange(stock.PctChange),
			PriceTrend:  stock.PriceTrend,
			Volatility:  stock.Volatility,
		})
	}
}

// FormatPctChange renders a percent change with an explicit sign and
// two decimals. A nil value renders the unavailable marker: absence
// signals an upstream fetch failure, not a zero.
func FormatPctChange(pct *float64) string {
	if pct == nil {
		return PlaceholderUnavailable
	}
	return fmt.Sprintf("%+.2f%%", *pct)
}
