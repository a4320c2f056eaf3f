// Package reports composes analysis reports from video insights and
// derived stock statistics, and renders the markdown documents served
// by the download endpoints.
package reports

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/models"
	"github.com/ternarybob/videre/internal/services/stocks"
)

const disclaimer = "This report is for reference only and does not constitute investment advice. " +
	"It is generated from public information and AI analysis and may contain errors. " +
	"Investors should make their own decisions based on their individual circumstances."

// Service builds report payloads and markdown documents
type Service struct {
	logger arbor.ILogger
}

// NewService creates a new report service
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// ContentOnlyReport wraps the model's markdown analysis as a report.
// The model output is carried verbatim; no structured fields are set.
func (s *Service) ContentOnlyReport(rawContent string) *models.Report {
	return &models.Report{
		Title:              "Video Investment Logic Analysis",
		GeneratedAt:        time.Now().Format("2006-01-02 15:04:05"),
		RawMarkdownContent: rawContent,
	}
}

// StockReport builds the structured report for a single symbol
func (s *Service) StockReport(analysis *models.VideoAnalysis, stock *models.StockData) *models.Report {
	report := &models.Report{
		Title:                    fmt.Sprintf("%s Investment Analysis Report", stock.Symbol),
		GeneratedAt:              time.Now().Format("2006-01-02 15:04:05"),
		ExecutiveSummary:         executiveSummary(analysis, stock),
		InvestmentRecommendation: recommend(analysis, stock),
		PriceTargets:             priceTargets(stock),
	}
	report.SetRisk(assessRisk(stock))
	return report
}

// ExtractionReport builds the structured report covering every stock
// extracted from the video.
func (s *Service) ExtractionReport(analysis *models.VideoAnalysis, stockData []models.StockData, extracted []models.ExtractedStock) *models.Report {
	report := &models.Report{
		Title:                    "Video Stock Extraction and Data Analysis Report",
		GeneratedAt:              time.Now().Format("2006-01-02 15:04:05"),
		ExecutiveSummary:         extractionSummary(analysis, stockData, extracted),
		InvestmentRecommendation: recommendMulti(analysis, stockData),
	}
	if len(stockData) > 0 {
		report.SetRisk(assessRisk(&stockData[0]))
	}
	return report
}

// BatchReport consolidates per-video analyses into one report
func (s *Service) BatchReport(analyses []*models.VideoAnalysis, summaries []string) *models.Report {
	return &models.Report{
		Title:                "Consolidated Multi-Video Investment Analysis",
		GeneratedAt:          time.Now().Format("2006-01-02 15:04:05"),
		VideoCount:           len(analyses),
		IndividualAnalyses:   summaries,
		ConsolidatedInsights: consolidateInsights(analyses),
		InvestmentRecommendation: &models.Recommendation{
			Action:          batchAction(analyses),
			ConfidenceLevel: "medium",
			TimeHorizon:     "1-3 months",
			Reasoning:       fmt.Sprintf("Consolidated from %d video analyses", len(analyses)),
		},
	}
}

// AccuracyAnalysis scores how the video's stock calls tracked the
// market since the analysis: a bullish call followed by a price rise,
// or a bearish call followed by a fall, counts as a hit. Charts whose
// data fetch failed or whose call is neutral are left unscored; nil is
// returned when nothing could be scored.
func (s *Service) AccuracyAnalysis(extracted []models.ExtractedStock, charts []models.StockChart) *models.AccuracyAnalysis {
	calls := make(map[string]string, len(extracted))
	for _, stock := range extracted {
		calls[stock.Symbol] = stock.Recommendation
	}

	hits, scored := 0, 0
	var findings []string
	for _, chart := range charts {
		if chart.Error != "" || chart.PriceChange == nil {
			continue
		}
		direction := callDirection(calls[chart.Symbol])
		if direction == 0 {
			continue
		}

		scored++
		move := *chart.PriceChange
		if (direction > 0) == (move >= 0) {
			hits++
		}
		findings = append(findings, fmt.Sprintf("%s: %s call, price moved %+.2f%%",
			chart.Symbol, calls[chart.Symbol], move))
	}

	if scored == 0 {
		return nil
	}

	return &models.AccuracyAnalysis{
		OverallScore: fmt.Sprintf("%d/%d", hits, scored),
		AnalysisSummary: fmt.Sprintf("%d of %d directional calls from the video matched the subsequent price move.",
			hits, scored),
		KeyFindings: findings,
	}
}

// callDirection maps a recommendation string to a market direction:
// 1 bullish, -1 bearish, 0 neutral or unrecognized.
func callDirection(recommendation string) int {
	lower := strings.ToLower(recommendation)
	for _, word := range []string{"buy", "bullish", "accumulate", "overweight"} {
		if strings.Contains(lower, word) {
			return 1
		}
	}
	for _, word := range []string{"sell", "bearish", "avoid", "short", "underweight"} {
		if strings.Contains(lower, word) {
			return -1
		}
	}
	return 0
}

// executiveSummary renders the leading summary for a single-symbol report
func executiveSummary(analysis *models.VideoAnalysis, stock *models.StockData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the latest video analysis and %s price data:\n\n", stock.Symbol)
	if analysis != nil && analysis.Summary != "" {
		fmt.Fprintf(&b, "Video thesis: %s\n\n", analysis.Summary)
	}
	fmt.Fprintf(&b, "Current price: $%.2f\n", stock.LatestPrice)
	if stock.PctChange != nil {
		fmt.Fprintf(&b, "Recent move: %+.2f%% (%s)\n", *stock.PctChange, stock.PriceTrend)
	} else {
		fmt.Fprintf(&b, "Recent move: data unavailable (%s)\n", stock.PriceTrend)
	}
	fmt.Fprintf(&b, "Volatility: %.2f%%", stock.Volatility)
	return b.String()
}

func extractionSummary(analysis *models.VideoAnalysis, stockData []models.StockData, extracted []models.ExtractedStock) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The video discusses %d stocks; price data was resolved for %d of them.\n\n", len(extracted), len(stockData))
	if analysis != nil && analysis.Summary != "" {
		fmt.Fprintf(&b, "Video thesis: %s", analysis.Summary)
	}
	return b.String()
}

// recommend scores a single symbol against the video sentiment.
// The scoring is intentionally simple: trend and volatility dominate,
// video sentiment nudges by one point.
func recommend(analysis *models.VideoAnalysis, stock *models.StockData) *models.Recommendation {
	score := 0

	switch stock.PriceTrend {
	case stocks.TrendStrongUp, stocks.TrendModerateUp:
		score += 2
	case stocks.TrendSideways:
		score++
	}

	if stock.Volatility < 10 {
		score++
	} else if stock.Volatility > 20 {
		score--
	}

	score += sentimentScore(analysis)

	action, confidence := "wait", "low"
	switch {
	case score >= 3:
		action, confidence = "buy", "high"
	case score >= 1:
		action, confidence = "hold", "medium"
	}

	return &models.Recommendation{
		Action:          action,
		ConfidenceLevel: confidence,
		TimeHorizon:     "1-3 months",
		Reasoning:       fmt.Sprintf("Technical score %d/4 combined with video content analysis", score),
	}
}

func recommendMulti(analysis *models.VideoAnalysis, stockData []models.StockData) *models.Recommendation {
	total := sentimentScore(analysis)
	for _, stock := range stockData {
		if stock.PctChange != nil && *stock.PctChange > 0 {
			total++
		} else if stock.PctChange != nil {
			total--
		}
	}

	action := "wait"
	if total > 0 {
		action = "buy"
	} else if total == 0 {
		action = "hold"
	}

	return &models.Recommendation{
		Action:          action,
		ConfidenceLevel: "medium",
		TimeHorizon:     "1-3 months",
		Reasoning:       fmt.Sprintf("Aggregated across %d stocks from the video", len(stockData)),
	}
}

// sentimentScore counts sentiment-bearing words in the video insights
func sentimentScore(analysis *models.VideoAnalysis) int {
	if analysis == nil {
		return 0
	}

	content := strings.ToLower(analysis.Summary + " " + strings.Join(analysis.InvestmentViews, " "))

	positive := []string{"bullish", "buy", "growth", "optimistic", "upside"}
	negative := []string{"bearish", "sell", "decline", "concern", "downside"}

	positiveCount, negativeCount := 0, 0
	for _, word := range positive {
		if strings.Contains(content, word) {
			positiveCount++
		}
	}
	for _, word := range negative {
		if strings.Contains(content, word) {
			negativeCount++
		}
	}

	if positiveCount > negativeCount {
		return 1
	}
	if negativeCount > positiveCount {
		return -1
	}
	return 0
}

func assessRisk(stock *models.StockData) *models.RiskAssessment {
	var risks []string
	if stock.Volatility > 15 {
		risks = append(risks, "High volatility: large price swings make short-term positions risky")
	}

	pct := 0.0
	if stock.PctChange != nil {
		pct = *stock.PctChange
	}
	if pct < -5 {
		risks = append(risks, "Recent weakness: the price has declined sharply")
	}

	level := "low"
	if stock.Volatility > 20 || math.Abs(pct) > 10 {
		level = "high"
	} else if stock.Volatility > 10 || math.Abs(pct) > 5 {
		level = "medium"
	}

	return &models.RiskAssessment{
		OverallRiskLevel: level,
		SpecificRisks:    risks,
		MitigationStrategies: []string{
			"Diversify to reduce single-stock exposure",
			"Set stop-loss levels to cap downside",
			"Monitor fundamentals for changes",
		},
	}
}

func priceTargets(stock *models.StockData) *models.PriceTargets {
	round2 := func(v float64) float64 { return math.Round(v*100) / 100 }
	return &models.PriceTargets{
		CurrentPrice: stock.LatestPrice,
		Target12M:    round2(stock.LatestPrice * 1.15),
		StopLoss:     round2(stock.LatestPrice * 0.90),
		SupportLevel: round2(stock.LatestPrice * 0.95),
	}
}

func consolidateInsights(analyses []*models.VideoAnalysis) string {
	companies := uniqueStrings(analyses, func(a *models.VideoAnalysis) []string { return a.Companies })
	events := uniqueStrings(analyses, func(a *models.VideoAnalysis) []string { return a.MarketEvents })
	views := uniqueStrings(analyses, func(a *models.VideoAnalysis) []string { return a.InvestmentViews })

	var b strings.Builder
	if len(companies) > 0 {
		fmt.Fprintf(&b, "Frequently mentioned companies: %s\n", strings.Join(companies, ", "))
	}
	if len(events) > 0 {
		fmt.Fprintf(&b, "Key market events: %s\n", strings.Join(events, ", "))
	}
	if len(views) > 0 {
		fmt.Fprintf(&b, "Expert consensus: %s\n", strings.Join(views, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func batchAction(analyses []*models.VideoAnalysis) string {
	total := 0
	for _, analysis := range analyses {
		total += sentimentScore(analysis)
	}
	switch {
	case total > 0:
		return "buy"
	case total == 0:
		return "hold"
	default:
		return "wait"
	}
}

func uniqueStrings(analyses []*models.VideoAnalysis, pick func(*models.VideoAnalysis) []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, analysis := range analyses {
		if analysis == nil {
			continue
		}
		for _, v := range pick(analysis) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
