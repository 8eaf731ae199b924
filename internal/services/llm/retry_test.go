package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestIsRateLimitError verifies rate limit detection across provider formats
func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "429 status", err: errors.New("googleapi: Error 429: rate limited"), expected: true},
		{name: "resource exhausted", err: errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED"), expected: true},
		{name: "quota message", err: errors.New("quota exceeded for model"), expected: true},
		{name: "unrelated error", err: errors.New("connection refused"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRateLimitError(tt.err))
		})
	}
}

// TestExtractRetryDelay verifies delay parsing from provider error text
func TestExtractRetryDelay(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected time.Duration
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "please retry format", err: errors.New("429: Please retry in 30s"), expected: 30 * time.Second},
		{name: "retryDelay format", err: errors.New("retryDelay: 12s"), expected: 12 * time.Second},
		{name: "fractional seconds", err: errors.New("Please retry in 7.5s"), expected: 7500 * time.Millisecond},
		{name: "no delay present", err: errors.New("429 too many requests"), expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractRetryDelay(tt.err))
		})
	}
}

// TestCalculateBackoff verifies exponential growth and the ceiling
func TestCalculateBackoff(t *testing.T) {
	config := NewDefaultRetryConfig()

	assert.Equal(t, 15*time.Second, config.CalculateBackoff(0, 0))
	assert.Equal(t, 22500*time.Millisecond, config.CalculateBackoff(1, 0))
	assert.Equal(t, 33750*time.Millisecond, config.CalculateBackoff(2, 0))
	assert.Equal(t, 60*time.Second, config.CalculateBackoff(5, 0), "capped at max backoff")
	t.Log("PASS: Backoff grows by 1.5x and caps at 60s")
}

// TestCalculateBackoff_APIDelay verifies API-provided delays take precedence
func TestCalculateBackoff_APIDelay(t *testing.T) {
	config := NewDefaultRetryConfig()

	// API delay plus 5s buffer replaces the initial backoff
	assert.Equal(t, 25*time.Second, config.CalculateBackoff(0, 20*time.Second))
	assert.Equal(t, 60*time.Second, config.CalculateBackoff(3, 20*time.Second), "still capped")
}
