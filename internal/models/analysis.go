package models

// VideoAnalysis is the content analysis extracted from a single video
type VideoAnalysis struct {
	Summary         string   `json:"summary"`
	Companies       []string `json:"companies,omitempty"`
	MarketEvents    []string `json:"market_events,omitempty"`
	InvestmentViews []string `json:"investment_views,omitempty"`
}

// ExtractedStock is one stock mention identified in video content
type ExtractedStock struct {
	Symbol         string `json:"symbol"`
	Name           string `json:"name,omitempty"`
	Confidence     string `json:"confidence,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
}

// PricePoint is one historical bar in a stock data series
type PricePoint struct {
	Date      string   `json:"date"`
	Close     float64  `json:"close"`
	Volume    int64    `json:"volume"`
	PctChange *float64 `json:"pct_change,omitempty"`
}

// StockData is the derived price summary for one symbol.
// PctChange is a pointer: an absent value signals an upstream fetch
// failure and must stay distinguishable from a genuine zero.
type StockData struct {
	Symbol      string       `json:"symbol"`
	Name        string       `json:"name,omitempty"`
	Period      string       `json:"period"`
	DataPoints  int          `json:"data_points"`
	LatestPrice float64      `json:"latest_price"`
	PctChange   *float64     `json:"pct_change,omitempty"`
	Volume      int64        `json:"volume"`
	PriceTrend  string       `json:"price_trend"`
	Volatility  float64      `json:"volatility"`
	Historical  []PricePoint `json:"historical,omitempty"`
}

// Video is a normalized channel video listing entry
type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Duration    string `json:"duration,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	ViewCount   string `json:"view_count,omitempty"`
	IsLive      bool   `json:"is_live,omitempty"`
}

// Key returns the identity used for selection uniqueness: the video ID
// when present, otherwise the URL.
func (v Video) Key() string {
	if v.ID != "" {
		return v.ID
	}
	return v.URL
}

// AnalyzeRequest is the POST /analyze request body
type AnalyzeRequest struct {
	VideoURL     string       `json:"video_url" validate:"required,url"`
	AnalysisType AnalysisType `json:"analysis_type" validate:"required,oneof=content_only stock_extraction manual_stock"`
	StartDate    string       `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string       `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StockSymbol  string       `json:"stock_symbol,omitempty" validate:"required_if=AnalysisType manual_stock"`
}

// BatchAnalyzeRequest is the POST /api/batch-analyze-selected request body
type BatchAnalyzeRequest struct {
	SelectedVideos []Video `json:"selected_videos" validate:"required,min=1,max=10"`
	ReportLanguage string  `json:"report_language,omitempty"`
}

// ExtractStocksRequest is the POST /api/extract-stocks-chart request body
type ExtractStocksRequest struct {
	CacheKey  string `json:"cache_key" validate:"required"`
	StartDate string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// StockChart is one chart entry in the extraction response.
// PriceChange follows the same absent-vs-zero rule as StockData.PctChange.
type StockChart struct {
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name,omitempty"`
	Period       string   `json:"period,omitempty"`
	CurrentPrice float64  `json:"current_price,omitempty"`
	PriceChange  *float64 `json:"price_change,omitempty"`
	ChartURL     string   `json:"chart_url,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// AccuracyAnalysis scores how the video's recommendations tracked the market
type AccuracyAnalysis struct {
	OverallScore    string   `json:"overall_score,omitempty"`
	AnalysisSummary string   `json:"analysis_summary,omitempty"`
	KeyFindings     []string `json:"key_findings,omitempty"`
	MarketContext   string   `json:"market_context,omitempty"`
}

// StockExtractionResult is the data payload of the extraction response
type StockExtractionResult struct {
	ExtractedStocks  []ExtractedStock  `json:"extracted_stocks"`
	StockCharts      []StockChart      `json:"stock_charts"`
	AccuracyAnalysis *AccuracyAnalysis `json:"accuracy_analysis,omitempty"`
}
