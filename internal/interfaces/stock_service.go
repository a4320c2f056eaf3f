package interfaces

import (
	"context"

	"github.com/ternarybob/videre/internal/models"
)

// StockService fetches end-of-day price data and derives the summary
// statistics attached to analysis results.
type StockService interface {
	// GetStockData returns the derived summary for a symbol over the
	// trailing number of days.
	GetStockData(ctx context.Context, symbol string, days int) (*models.StockData, error)

	// GetStockDataRange returns the derived summary for a symbol over
	// an explicit date range (YYYY-MM-DD, inclusive).
	GetStockDataRange(ctx context.Context, symbol, startDate, endDate string) (*models.StockData, error)
}
