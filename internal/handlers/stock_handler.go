package handlers

import (
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/common"
	"github.com/ternarybob/videre/internal/interfaces"
)

// StockHandler serves direct stock data lookups
type StockHandler struct {
	stocks interfaces.StockService
	logger arbor.ILogger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService interfaces.StockService) *StockHandler {
	return &StockHandler{
		stocks: stockService,
		logger: common.GetLogger(),
	}
}

// StockDataHandler handles GET /api/stock-data.
// Query parameters: symbol (required), days or start_date+end_date.
func (h *StockHandler) StockDataHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	q := r.URL.Query()
	symbol := q.Get("symbol")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol query parameter is required")
		return
	}

	startDate := q.Get("start_date")
	endDate := q.Get("end_date")

	var err error
	var data interface{}
	if startDate != "" && endDate != "" {
		data, err = h.stocks.GetStockDataRange(r.Context(), symbol, startDate, endDate)
	} else {
		days := 0
		if d := q.Get("days"); d != "" {
			if days, err = strconv.Atoi(d); err != nil {
				WriteError(w, http.StatusBadRequest, "days must be an integer")
				return
			}
		}
		data, err = h.stocks.GetStockData(r.Context(), symbol, days)
	}
	if err != nil {
		h.logger.Warn().Err(err).Str("symbol", symbol).Msg("Stock data lookup failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}
