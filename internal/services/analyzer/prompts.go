package analyzer

import (
	"fmt"
	"time"
)

// analysisPrompt is the instruction for the full video investment report.
// The model returns a complete markdown document which is carried into
// the report verbatim.
func analysisPrompt() string {
	currentDate := time.Now().Format("January 2, 2006")
	return fmt.Sprintf(`You are a senior securities analyst at a top-tier investment bank. You excel at
extracting core theses from unstructured sources such as finance videos and
writing rigorous, institutional-grade research reports.

Analysis date: %[1]s. Use this date in the report header; do not infer or
assume the video's publication date.

I am providing a YouTube video. Your task:
1. Process the full content of the video (title, creator, all spoken and visual information).
2. Produce a comprehensive, in-depth investment opinion report based on it.
3. Go beyond summarizing: include your own critical assessment, context, and strategy suggestions.

Structure the report in Markdown with these sections:

# Investment Analysis Report: [video topic]

**Report date:** %[1]s

## 1. Executive Summary
Core thesis in 2-3 sentences, main recommendations, expected return and risk rating.

## 2. Source Analysis
Creator background and credibility, timeliness of the content, reliability of each claim.

## 3. Investment Thesis Breakdown
For every instrument or theme mentioned: the stated logic, fundamental/technical
points raised, your critical assessment, and the strategy category it belongs to.

## 4. Market Context
Macro environment, sector trends, policy impacts relevant to the theses.

## 5. Risk Assessment
Key risks per recommendation with an explicit risk grade (low/medium/high/speculative)
and estimated downside.

## 6. Recommendations
Concrete, actionable suggestions including position sizing and exit strategy.

## 7. Caveats
Information the investor should verify independently, further reading, and how the
video's views compare to market consensus.

Keep the tone professional and objective. Output Markdown only.

Note: this report is compiled from video content for reference only and does not
constitute investment advice.`, currentDate)
}

// extractionPrompt asks the model for stock mentions as strict JSON
const extractionPrompt = `Carefully analyze this YouTube video and extract only the stock
information it mentions:

1. Identify every explicitly mentioned ticker symbol (AAPL, GOOGL, TSLA, ...).
2. Identify company names mentioned without tickers and resolve the ticker.
3. Rate how prominently each stock is discussed.
4. Judge the stance taken on each stock.

Return the result as JSON in exactly this shape:
{
    "extracted_stocks": [
        {
            "symbol": "AAPL",
            "name": "Apple Inc.",
            "confidence": "high/medium/low",
            "recommendation": "positive/negative/neutral"
        }
    ],
    "summary": "overall summary of the stock discussion in the video"
}

If the video mentions no specific stocks, return an empty extracted_stocks array.`
