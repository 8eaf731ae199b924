// Package edgar provides a client for the SEC EDGAR full-text search API.
// This package centralizes all EDGAR API interactions for the application.
package edgar

import (
	"fmt"
	"time"
)

// APIError represents an error from the EDGAR API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EDGAR API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError represents a rate limit error.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("EDGAR rate limit exceeded, retry after %v", e.RetryAfter)
}
