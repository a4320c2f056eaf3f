package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/videre/internal/models"
)

// FormatMarkdown renders the downloadable report document for a stored
// analysis. The body follows the report shape: the raw markdown variant
// is carried verbatim, the structured variants are rendered section by
// section.
func (s *Service) FormatMarkdown(record *models.AnalysisRecord) string {
	var b strings.Builder

	b.WriteString("# YouTube Video Analysis Report\n\n")
	b.WriteString("## Analysis Info\n")
	fmt.Fprintf(&b, "- **Generated**: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- **Video count**: %d\n", len(record.VideoURLs))
	fmt.Fprintf(&b, "- **Analysis type**: %s\n", analysisTypeLabel(record.AnalysisType))

	b.WriteString("\n## Video Links\n")
	for i, url := range record.VideoURLs {
		fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, url, url)
	}

	b.WriteString("\n## Analysis Report\n\n")
	b.WriteString(reportBody(record.Report))
	b.WriteString("\n")

	if stocks, _, err := (&models.StreamEvent{StockData: record.StockData}).StockDataList(); err == nil && len(stocks) > 0 {
		b.WriteString("\n## Additional Information\n\n### Stock Data\n\n")
		for _, stock := range stocks {
			fmt.Fprintf(&b, "- **%s**: %s\n", stock.Symbol, orNA(stock.Name))
		}
	}

	if len(record.ExtractedStocks) > 0 {
		b.WriteString("\n### Extracted Stocks\n\n")
		for _, stock := range record.ExtractedStocks {
			fmt.Fprintf(&b, "- **%s**: %s\n", stock.Symbol, orNA(stock.Name))
		}
	}

	fmt.Fprintf(&b, "\n---\n\n%s\n", disclaimer)
	return b.String()
}

func analysisTypeLabel(t models.AnalysisType) string {
	switch t {
	case models.AnalysisContentOnly:
		return "content analysis"
	case models.AnalysisStockExtraction:
		return "stock extraction"
	case models.AnalysisManualStock:
		return "manual stock analysis"
	default:
		return "unknown"
	}
}

// reportBody renders the report content according to its resolved shape
func reportBody(report *models.Report) string {
	switch report.Format() {
	case models.ReportFormatMarkdown:
		return report.RawMarkdownContent
	case models.ReportFormatStructured:
		return structuredBody(report)
	case models.ReportFormatLegacy:
		var b strings.Builder
		b.WriteString("### Investment Logic\n\n")
		b.WriteString(report.InvestmentLogic)
		if report.KeyTakeaways != "" {
			b.WriteString("\n\n### Key Takeaways\n\n")
			b.WriteString(report.KeyTakeaways)
		}
		return b.String()
	default:
		return "_No report content available._"
	}
}

func structuredBody(report *models.Report) string {
	var b strings.Builder

	if report.ExecutiveSummary != "" {
		b.WriteString("### Executive Summary\n\n")
		b.WriteString(report.ExecutiveSummary)
		b.WriteString("\n\n")
	}

	rec := report.InvestmentRecommendation
	b.WriteString("### Investment Recommendation\n\n")
	fmt.Fprintf(&b, "- **Action**: %s\n", rec.Action)
	if rec.ConfidenceLevel != "" {
		fmt.Fprintf(&b, "- **Confidence**: %s\n", rec.ConfidenceLevel)
	}
	if rec.TimeHorizon != "" {
		fmt.Fprintf(&b, "- **Time horizon**: %s\n", rec.TimeHorizon)
	}
	if rec.Reasoning != "" {
		fmt.Fprintf(&b, "- **Reasoning**: %s\n", rec.Reasoning)
	}

	if risk, text := report.Risk(); risk != nil {
		b.WriteString("\n### Risk Assessment\n\n")
		fmt.Fprintf(&b, "- **Overall risk**: %s\n", risk.OverallRiskLevel)
		for _, r := range risk.SpecificRisks {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	} else if text != "" {
		b.WriteString("\n### Risk Assessment\n\n")
		b.WriteString(text)
		b.WriteString("\n")
	}

	if targets := report.PriceTargets; targets != nil {
		b.WriteString("\n### Price Targets\n\n")
		fmt.Fprintf(&b, "| Current | 12M Target | Stop Loss | Support |\n")
		fmt.Fprintf(&b, "|---------|-----------|-----------|--------|\n")
		fmt.Fprintf(&b, "| $%.2f | $%.2f | $%.2f | $%.2f |\n",
			targets.CurrentPrice, targets.Target12M, targets.StopLoss, targets.SupportLevel)
	}

	return strings.TrimRight(b.String(), "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
