package stocks

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/common"
	"github.com/ternarybob/videre/internal/eodhd"
	"github.com/ternarybob/videre/internal/interfaces"
	"github.com/ternarybob/videre/internal/models"
)

// Price trend labels derived from the trailing week's move
const (
	TrendStrongUp     = "strong uptrend"
	TrendModerateUp   = "moderate uptrend"
	TrendSideways     = "sideways"
	TrendModerateDown = "moderate downtrend"
	TrendStrongDown   = "sharp downtrend"
	TrendInsufficient = "insufficient data"
)

// Service derives per-symbol price summaries from EOD data
type Service struct {
	client *eodhd.Client
	logger arbor.ILogger
}

// NewService creates a new stock data service
func NewService(config *common.StocksConfig, logger arbor.ILogger) interfaces.StockService {
	opts := []eodhd.ClientOption{
		eodhd.WithLogger(logger),
	}
	if config.BaseURL != "" {
		opts = append(opts, eodhd.WithBaseURL(config.BaseURL))
	}
	if config.RateLimit > 0 {
		opts = append(opts, eodhd.WithRateLimit(config.RateLimit))
	}

	return &Service{
		client: eodhd.NewClient(config.APIKey, opts...),
		logger: logger,
	}
}

// NewServiceWithClient creates a stock data service with an existing client
func NewServiceWithClient(client *eodhd.Client, logger arbor.ILogger) interfaces.StockService {
	return &Service{client: client, logger: logger}
}

// GetStockData returns the derived summary for a symbol over the
// trailing number of days.
func (s *Service) GetStockData(ctx context.Context, symbol string, days int) (*models.StockData, error) {
	if days <= 0 {
		days = 30
	}

	to := time.Now()
	from := to.AddDate(0, 0, -days)

	data, err := s.fetch(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	summary := summarize(symbol, data)
	summary.Period = fmt.Sprintf("%d days", days)
	return summary, nil
}

// GetStockDataRange returns the derived summary for a symbol over an
// explicit date range (YYYY-MM-DD, inclusive).
func (s *Service) GetStockDataRange(ctx context.Context, symbol, startDate, endDate string) (*models.StockData, error) {
	from, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	to, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}

	data, err := s.fetch(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	summary := summarize(symbol, data)
	summary.Period = fmt.Sprintf("%s to %s", startDate, endDate)
	return summary, nil
}

func (s *Service) fetch(ctx context.Context, symbol string, from, to time.Time) (eodhd.EODResponse, error) {
	data, err := s.client.GetEOD(ctx, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price data for %s: %w", symbol, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no price data found for symbol %s", symbol)
	}
	return data, nil
}

// summarize derives the summary statistics from an ascending EOD series.
// PctChange stays nil when fewer than two bars exist; callers must treat
// that as unavailable rather than zero.
func summarize(symbol string, data eodhd.EODResponse) *models.StockData {
	latest := data[len(data)-1]

	summary := &models.StockData{
		Symbol:      symbol,
		DataPoints:  len(data),
		LatestPrice: latest.Close,
		Volume:      latest.Volume,
		PriceTrend:  analyzeTrend(data),
		Historical:  historicalPoints(data),
	}

	if len(data) >= 2 {
		prev := data[len(data)-2]
		if prev.Close != 0 {
			change := (latest.Close - prev.Close) / prev.Close * 100
			summary.PctChange = &change
		}
		summary.Volatility = calculateVolatility(data)
	}

	return summary
}

// historicalPoints converts the EOD series into wire-format points with
// day-over-day percentage changes.
func historicalPoints(data eodhd.EODResponse) []models.PricePoint {
	points := make([]models.PricePoint, 0, len(data))
	for i, bar := range data {
		point := models.PricePoint{
			Date:   bar.DateStr,
			Close:  bar.Close,
			Volume: bar.Volume,
		}
		if i > 0 && data[i-1].Close != 0 {
			change := (bar.Close - data[i-1].Close) / data[i-1].Close * 100
			point.PctChange = &change
		}
		points = append(points, point)
	}
	return points
}

// analyzeTrend classifies the price move between the latest close and
// the close roughly a week earlier.
func analyzeTrend(data eodhd.EODResponse) string {
	if len(data) < 2 {
		return TrendInsufficient
	}

	latest := data[len(data)-1].Close
	lookback := len(data) - 1 - 7
	if lookback < 0 {
		lookback = 0
	}
	reference := data[lookback].Close
	if reference == 0 {
		return TrendInsufficient
	}

	changePct := (latest - reference) / reference * 100
	switch {
	case changePct > 5:
		return TrendStrongUp
	case changePct > 2:
		return TrendModerateUp
	case changePct > -2:
		return TrendSideways
	case changePct > -5:
		return TrendModerateDown
	default:
		return TrendStrongDown
	}
}

// calculateVolatility computes the population standard deviation of the
// daily percentage changes, rounded to two decimals.
func calculateVolatility(data eodhd.EODResponse) float64 {
	changes := make([]float64, 0, len(data)-1)
	for i := 1; i < len(data); i++ {
		if data[i-1].Close == 0 {
			continue
		}
		changes = append(changes, (data[i].Close-data[i-1].Close)/data[i-1].Close*100)
	}
	if len(changes) == 0 {
		return 0
	}

	mean := 0.0
	for _, c := range changes {
		mean += c
	}
	mean /= float64(len(changes))

	variance := 0.0
	for _, c := range changes {
		variance += (c - mean) * (c - mean)
	}
	variance /= float64(len(changes))

	return math.Round(math.Sqrt(variance)*100) / 100
}
