package finnhub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-key", WithBaseURL(server.URL))
}

// TestGetProfile verifies profile decoding and token handling
func TestGetProfile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/profile2", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("token"))
		assert.Equal(t, "NVDA", r.URL.Query().Get("symbol"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"ticker": "NVDA",
			"name": "NVIDIA Corp",
			"finnhubIndustry": "Semiconductors",
			"exchange": "NASDAQ",
			"weburl": "https://www.nvidia.com/"
		}`))
	})

	profile, err := client.GetProfile(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Equal(t, "NVDA", profile.Ticker)
	assert.Equal(t, "NVIDIA Corp", profile.Name)
	assert.Equal(t, "Semiconductors", profile.FinnhubIndustry)
	t.Log("PASS: Profile decoded with API token in query")
}

// TestGetProfile_EmptyResponse verifies an empty profile object is an error
func TestGetProfile_EmptyResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.GetProfile(context.Background(), "ZZZZ")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Message, "ZZZZ")
}

// TestGetNews verifies date range params, Unix date parsing and the limit
func TestGetNews(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/company-news", r.URL.Path)
		assert.Equal(t, "2026-08-16", r.URL.Query().Get("from"))
		assert.Equal(t, "2026-08-23", r.URL.Query().Get("to"))

		w.Write([]byte(`[
			{"headline": "First", "summary": "one", "datetime": 1755907200},
			{"headline": "Second", "summary": "two", "datetime": 1755993600},
			{"headline": "Third", "summary": "three", "datetime": 1756080000}
		]`))
	})

	from := time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

	news, err := client.GetNews(context.Background(), "NVDA", WithDateRange(from, to), WithLimit(2))
	require.NoError(t, err)
	require.Len(t, news, 2, "limit applied")
	assert.Equal(t, "First", news[0].Headline)
	assert.Equal(t, time.Unix(1755907200, 0).UTC(), news[0].Date)
}

// TestGetCompanyNews verifies the domain model adapter
func TestGetCompanyNews(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"headline": "AI launch", "summary": "details", "source": "wire", "url": "https://example.com", "datetime": 1755907200}]`))
	})

	items, err := client.GetCompanyNews(context.Background(), "NVDA", time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "AI launch", items[0].Headline)
	assert.Equal(t, "wire", items[0].Source)
	assert.False(t, items[0].PublishedAt.IsZero())
}

// TestGet_ServerError verifies non-200 responses surface as APIError
func TestGet_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	_, err := client.GetProfile(context.Background(), "NVDA")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "/stock/profile2", apiErr.Endpoint)
}

// TestGet_RateLimited verifies 429 maps to RateLimitError
func TestGet_RateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.GetQuote(context.Background(), "NVDA")
	require.Error(t, err)

	var rateErr *RateLimitError
	require.True(t, errors.As(err, &rateErr))
	assert.Equal(t, time.Minute, rateErr.RetryAfter)
	t.Log("PASS: 429 surfaces as RateLimitError")
}
