package models

import (
	"encoding/json"
	"time"
)

// AnalysisRecord is the persisted form of a completed analysis, keyed by
// the cache key derived from its source videos. It backs the cache
// short-circuit on repeat requests and the report download endpoints.
type AnalysisRecord struct {
	CacheKey     string       `badgerhold:"key" json:"cache_key"`
	AnalysisType AnalysisType `json:"analysis_type"`
	VideoURLs    []string     `json:"video_urls"`

	Report          *Report          `json:"report,omitempty"`
	VideoAnalysis   *VideoAnalysis   `json:"video_analysis,omitempty"`
	ExtractedStocks []ExtractedStock `json:"extracted_stocks,omitempty"`
	StockData       json.RawMessage  `json:"stock_data,omitempty"`

	// MarkdownContent is the rendered report document served by the
	// markdown and PDF download endpoints.
	MarkdownContent string `json:"markdown_content,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
