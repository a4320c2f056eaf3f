// Package tikhub provides a client for the TikHub YouTube data API.
// This package centralizes all TikHub API interactions for the application.
package tikhub

import (
	"fmt"
	"time"
)

// QueryOption represents an optional parameter for API queries.
type QueryOption func(*queryParams)

// queryParams holds optional query parameters.
type queryParams struct {
	NextToken string
	SortBy    string // newest, oldest, mostPopular
	Lang      string
}

// WithNextToken sets the pagination token for the query.
func WithNextToken(token string) QueryOption {
	return func(p *queryParams) {
		p.NextToken = token
	}
}

// WithSortBy sets the listing sort order.
func WithSortBy(sortBy string) QueryOption {
	return func(p *queryParams) {
		p.SortBy = sortBy
	}
}

// WithLang sets the response language.
func WithLang(lang string) QueryOption {
	return func(p *queryParams) {
		p.Lang = lang
	}
}

// APIError represents an error from the TikHub API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("TikHub API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError represents a rate limit error.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("TikHub rate limit exceeded, retry after %v", e.RetryAfter)
}
