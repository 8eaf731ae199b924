package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/deepdiver/internal/models"
)

const (
	// DefaultBaseURL is the base URL for the Finnhub API.
	DefaultBaseURL = "https://finnhub.io/api/v1"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 10
)

// Client is a Finnhub API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new Finnhub API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a GET request to the API.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return &RateLimitError{RetryAfter: time.Second}
	}

	// Add API token
	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.apiKey)

	// Build URL
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	// Create request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Log request
	if c.logger != nil {
		c.logger.Debug().
			Str("url", c.baseURL+path).
			Msg("Finnhub API request")
	}

	// Execute request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// Check status
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{RetryAfter: time.Minute}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	// Parse response
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetProfile retrieves the raw company profile for a symbol.
func (c *Client) GetProfile(ctx context.Context, symbol string) (*ProfileResponse, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var result ProfileResponse
	if err := c.get(ctx, "/stock/profile2", params, &result); err != nil {
		return nil, err
	}

	if result.Ticker == "" && result.Name == "" {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    fmt.Sprintf("no profile data for symbol %s", symbol),
			Endpoint:   "/stock/profile2",
		}
	}

	return &result, nil
}

// GetNews retrieves company news for a symbol.
func (c *Client) GetNews(ctx context.Context, symbol string, opts ...QueryOption) (NewsResponse, error) {
	params := &queryParams{}
	for _, opt := range opts {
		opt(params)
	}

	queryParams := url.Values{}
	queryParams.Set("symbol", symbol)
	if !params.From.IsZero() {
		queryParams.Set("from", params.From.Format("2006-01-02"))
	}
	if !params.To.IsZero() {
		queryParams.Set("to", params.To.Format("2006-01-02"))
	}

	var result NewsResponse
	if err := c.get(ctx, "/company-news", queryParams, &result); err != nil {
		return nil, err
	}

	// Parse dates
	for i := range result {
		result[i].Date = time.Unix(result[i].Unix, 0).UTC()
	}

	if params.Limit > 0 && len(result) > params.Limit {
		result = result[:params.Limit]
	}

	return result, nil
}

// GetQuote retrieves the latest quote for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*QuoteResponse, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var result QuoteResponse
	if err := c.get(ctx, "/quote", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCompanyProfile retrieves the company profile as a domain model.
// Implements interfaces.MarketDataService.
func (c *Client) GetCompanyProfile(ctx context.Context, ticker string) (*models.CompanyProfile, error) {
	profile, err := c.GetProfile(ctx, ticker)
	if err != nil {
		return nil, err
	}

	return &models.CompanyProfile{
		Ticker:      profile.Ticker,
		Name:        profile.Name,
		Sector:      profile.FinnhubIndustry,
		Industry:    profile.FinnhubIndustry,
		Description: profile.Description,
		Exchange:    profile.Exchange,
		WebURL:      profile.WebURL,
	}, nil
}

// GetCompanyNews retrieves company news as domain models.
// Implements interfaces.MarketDataService.
func (c *Client) GetCompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]models.NewsItem, error) {
	articles, err := c.GetNews(ctx, ticker, WithDateRange(from, to))
	if err != nil {
		return nil, err
	}

	items := make([]models.NewsItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, models.NewsItem{
			Headline:    a.Headline,
			Summary:     a.Summary,
			Source:      a.Source,
			URL:         a.URL,
			PublishedAt: a.Date,
		})
	}

	return items, nil
}
