package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/videre/internal/models"
)

// extractionResult is the JSON shape the extraction prompt requests
type extractionResult struct {
	ExtractedStocks []models.ExtractedStock `json:"extracted_stocks"`
	Summary         string                  `json:"summary"`
}

// parseExtractionResult pulls the JSON object out of the model response.
// Models tend to wrap JSON in code fences or prose, so the parser scans
// for the outermost braces rather than decoding the raw text.
func parseExtractionResult(content string) (*extractionResult, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object found in extraction response")
	}

	var result extractionResult
	if err := json.Unmarshal([]byte(content[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("failed to decode extraction response: %w", err)
	}
	return &result, nil
}

// Ticker symbols recognized by the keyword scan. Anything beyond this
// list needs the extraction pipeline, which asks the model directly.
var knownTickers = []string{"AAPL", "GOOGL", "MSFT", "TSLA", "AMZN", "NVDA", "META"}

var (
	eventKeywords = []string{"earnings", "results", "launch", "acquisition", "merger", "new product"}
	viewKeywords  = []string{"recommend", "forecast", "target price", "rating", "bullish", "bearish"}
)

const (
	maxMarketEvents    = 5
	maxInvestmentViews = 3
)

// parseVideoAnalysis derives the structured insight fields from a
// markdown analysis. The summary is the first body paragraph; companies,
// market events and investment views come from keyword scans over the
// full text.
func parseVideoAnalysis(raw string) *models.VideoAnalysis {
	return &models.VideoAnalysis{
		Summary:         firstParagraph(raw),
		Companies:       extractCompanies(raw),
		MarketEvents:    matchLines(raw, eventKeywords, maxMarketEvents),
		InvestmentViews: matchLines(raw, viewKeywords, maxInvestmentViews),
	}
}

// extractCompanies returns the known tickers mentioned anywhere in the
// text, in list order.
func extractCompanies(raw string) []string {
	upper := strings.ToUpper(raw)
	var companies []string
	for _, ticker := range knownTickers {
		if strings.Contains(upper, ticker) {
			companies = append(companies, ticker)
		}
	}
	return companies
}

// matchLines collects lines containing any of the keywords, up to limit
func matchLines(raw string, keywords []string, limit int) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				out = append(out, trimmed)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out
}

// firstParagraph returns the first non-heading paragraph of a markdown
// document, capped to keep summaries compact.
func firstParagraph(raw string) string {
	const maxLen = 500

	var current []string
	flush := func() string {
		return strings.TrimSpace(strings.Join(current, " "))
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			if p := flush(); p != "" {
				return truncate(p, maxLen)
			}
			current = current[:0]
		case strings.HasPrefix(trimmed, "#"),
			strings.HasPrefix(trimmed, "**Report date"),
			strings.HasPrefix(trimmed, "```"):
			current = current[:0]
		default:
			current = append(current, trimmed)
		}
	}

	if p := flush(); p != "" {
		return truncate(p, maxLen)
	}
	return truncate(strings.TrimSpace(raw), maxLen)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
