// Package finnhub provides a client for the Finnhub stock API.
// This package centralizes all Finnhub API interactions for the application.
package finnhub

import (
	"fmt"
	"time"
)

// QueryOption represents an optional parameter for API queries.
type QueryOption func(*queryParams)

// queryParams holds optional query parameters.
type queryParams struct {
	From  time.Time
	To    time.Time
	Limit int
}

// WithDateRange sets the date range for the query.
func WithDateRange(from, to time.Time) QueryOption {
	return func(p *queryParams) {
		p.From = from
		p.To = to
	}
}

// WithLimit sets the maximum number of results.
func WithLimit(limit int) QueryOption {
	return func(p *queryParams) {
		p.Limit = limit
	}
}

// APIError represents an error from the Finnhub API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Finnhub API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError represents a rate limit error.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Finnhub rate limit exceeded, retry after %v", e.RetryAfter)
}
