package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVideoAnalysis(t *testing.T) {
	raw := strings.Join([]string{
		"# Analysis",
		"",
		"The video argues Apple (AAPL) and Nvidia (NVDA) lead the AI cycle.",
		"",
		"Q3 earnings beat expectations across the sector.",
		"A new product launch is expected in October.",
		"Analysts recommend accumulating on weakness.",
		"The 12-month target price was raised to $280.",
	}, "\n")

	analysis := parseVideoAnalysis(raw)

	assert.Equal(t, "The video argues Apple (AAPL) and Nvidia (NVDA) lead the AI cycle.", analysis.Summary)
	assert.Equal(t, []string{"AAPL", "NVDA"}, analysis.Companies)
	assert.Equal(t, []string{
		"Q3 earnings beat expectations across the sector.",
		"A new product launch is expected in October.",
	}, analysis.MarketEvents)
	assert.Equal(t, []string{
		"Analysts recommend accumulating on weakness.",
		"The 12-month target price was raised to $280.",
	}, analysis.InvestmentViews)
}

func TestParseVideoAnalysis_CapsKeywordMatches(t *testing.T) {
	var lines []string
	for i := 0; i < 8; i++ {
		lines = append(lines, fmt.Sprintf("Earnings update %d for the quarter.", i))
	}
	for i := 0; i < 6; i++ {
		lines = append(lines, fmt.Sprintf("Forecast %d remains positive.", i))
	}

	analysis := parseVideoAnalysis(strings.Join(lines, "\n"))

	assert.Len(t, analysis.MarketEvents, 5)
	assert.Len(t, analysis.InvestmentViews, 3)
}

func TestParseVideoAnalysis_NoMatches(t *testing.T) {
	analysis := parseVideoAnalysis("A calm week with nothing notable to report.")

	assert.Empty(t, analysis.Companies)
	assert.Empty(t, analysis.MarketEvents)
	assert.Empty(t, analysis.InvestmentViews)
}
