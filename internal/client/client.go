package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/common"
	"github.com/ternarybob/videre/internal/models"
	"github.com/ternarybob/videre/internal/stream"
)

// Client drives the analysis API: it issues requests, feeds the
// streaming responses through the decoder and dispatches events to a
// session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	logger     arbor.ILogger
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a custom logger
func WithLogger(logger arbor.ILogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the given server base URL.
// The default HTTP client carries no timeout: analysis streams run for
// minutes and are bounded by the caller's context instead.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		validate:   validator.New(),
		logger:     common.GetLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze runs one analysis, dispatching every stream event to the
// handler. Validation failures surface before any network call.
// Cleanup (decoder close) runs whether the stream completes or fails.
func (c *Client) Analyze(ctx context.Context, req *models.AnalyzeRequest, handler stream.Handler) error {
	if req.AnalysisType == "" {
		req.AnalysisType = models.AnalysisContentOnly
	}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid analysis request: %w", err)
	}

	return c.streamRequest(ctx, "/analyze", req, handler)
}

// BatchResult is the batch analysis response document
type BatchResult struct {
	Success    bool           `json:"success"`
	Report     *models.Report `json:"report"`
	CacheKey   string         `json:"cache_key"`
	VideoCount int            `json:"video_count"`
	FromCache  bool           `json:"from_cache"`
}

// AnalyzeBatch runs a batch analysis over the selected videos. The
// endpoint answers with one JSON document rather than an event stream;
// the result is recorded on the session so follow-up actions work the
// same way as for single analyses.
func (c *Client) AnalyzeBatch(ctx context.Context, req *models.BatchAnalyzeRequest, session *Session) (*BatchResult, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid batch request: %w", err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/batch-analyze-selected", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	defer resp.Body.Close()

	var result BatchResult
	if err := c.decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	if session != nil {
		session.OnResult(models.StreamEvent{
			Type:      models.EventResult,
			Success:   result.Success,
			Report:    result.Report,
			CacheKey:  result.CacheKey,
			FromCache: result.FromCache,
		})
	}
	return &result, nil
}

func (c *Client) streamRequest(ctx context.Context, path string, body interface{}, handler stream.Handler) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("connection failed: server returned %d: %s", resp.StatusCode, data)
	}

	return c.readStream(resp.Body, handler)
}

// readStream pumps the response body through the decoder until
// end-of-stream, dispatching each event in arrival order.
func (c *Client) readStream(body io.Reader, handler stream.Handler) error {
	decoder := stream.NewDecoder()
	defer decoder.Close()

	dispatcher := stream.NewDispatcher(handler)
	buf := make([]byte, 4096)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			for _, event := range decoder.Feed(buf[:n]) {
				dispatcher.Dispatch(event)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("connection failed: %w", err)
		}
	}
}

// ChannelVideos fetches one page of a channel listing
func (c *Client) ChannelVideos(ctx context.Context, channelID, nextToken string) ([]models.Video, string, error) {
	q := url.Values{}
	q.Set("channel_id", channelID)
	if nextToken != "" {
		q.Set("next_token", nextToken)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/channel-videos?"+q.Encode(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("connection failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Success   bool           `json:"success"`
		Videos    []models.Video `json:"videos"`
		NextToken string         `json:"next_token"`
		Error     string         `json:"error"`
	}
	if err := c.decodeResponse(resp, &result); err != nil {
		return nil, "", err
	}
	return result.Videos, result.NextToken, nil
}

// ExtractStocksChart resolves chart data for a completed analysis. The
// session must hold a cache key; without one the call fails before any
// network activity.
func (c *Client) ExtractStocksChart(ctx context.Context, session *Session, startDate, endDate string) (*models.StockExtractionResult, error) {
	cacheKey, err := session.CacheKey()
	if err != nil {
		return nil, err
	}

	req := models.ExtractStocksRequest{
		CacheKey:  cacheKey,
		StartDate: startDate,
		EndDate:   endDate,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/extract-stocks-chart", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool                          `json:"success"`
		Data    *models.StockExtractionResult `json:"data"`
		Error   string                        `json:"error"`
	}
	if err := c.decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// DownloadMarkdownURL builds the markdown download link for a session
func (c *Client) DownloadMarkdownURL(session *Session) (string, error) {
	cacheKey, err := session.CacheKey()
	if err != nil {
		return "", err
	}
	return c.baseURL + "/api/download-markdown/" + cacheKey, nil
}

// DownloadPDFURL builds the PDF download link for a session
func (c *Client) DownloadPDFURL(session *Session) (string, error) {
	cacheKey, err := session.CacheKey()
	if err != nil {
		return "", err
	}
	return c.baseURL + "/api/download-pdf/" + cacheKey, nil
}

func (c *Client) decodeResponse(resp *http.Response, out interface{}) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("connection failed: server returned %d: %s", resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ParseVideoURLParams resolves the analysis page's input URL from query
// parameters. encoded_url carries base64 over a percent-encoded URL and
// takes priority; when its decoding fails the plain video_url parameter
// is used, else the field stays blank.
func ParseVideoURLParams(query url.Values) string {
	plain := query.Get("video_url")

	encoded := query.Get("encoded_url")
	if encoded == "" {
		return plain
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return plain
	}
	unescaped, err := url.QueryUnescape(string(decoded))
	if err != nil {
		return plain
	}
	return unescaped
}

// ValidateDateRange checks an optional analysis date range before any
// network call
func ValidateDateRange(startDate, endDate string) error {
	if startDate == "" && endDate == "" {
		return nil
	}
	if startDate == "" || endDate == "" {
		return fmt.Errorf("both start and end dates are required")
	}

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("end date must not precede start date")
	}
	return nil
}
