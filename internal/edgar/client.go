package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/deepdiver/internal/models"
)

const (
	// DefaultBaseURL is the base URL for the EDGAR full-text search API.
	DefaultBaseURL = "https://efts.sec.gov/LATEST"

	// DefaultUserAgent identifies the client to the SEC as required by
	// their fair access policy.
	DefaultUserAgent = "DeepDiver research@ternarybob.com"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	// The SEC allows at most 10 requests per second per client.
	DefaultRateLimit = 5

	// maxSnippets is the maximum number of filing snippets returned.
	maxSnippets = 5

	// maxSnippetLen is the maximum length of a single snippet.
	maxSnippetLen = 300
)

// Client is an EDGAR full-text search client.
type Client struct {
	baseURL    string
	userAgent  string
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

// WithUserAgent sets the identifying user agent.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
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

// NewClient creates a new EDGAR full-text search client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
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

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	if c.logger != nil {
		c.logger.Debug().
			Str("url", c.baseURL+path).
			Msg("EDGAR API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

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

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// searchQuery matches AI disclosures in filing text. Snippets reveal
// whether AI is mentioned in an R&D, product, or operations context.
const searchQuery = `"artificial intelligence" OR "machine learning" OR "generative AI"`

// SearchAIMentions searches recent 10-K filings for AI-related disclosures
// by the given company. Returns the total match count plus up to 5 highlight
// snippets, each capped at 300 characters with markup stripped.
// Implements interfaces.FilingSearchService.
func (c *Client) SearchAIMentions(ctx context.Context, ticker, companyName string) (*models.FilingMentions, error) {
	entity := companyName
	if entity == "" {
		entity = ticker
	}

	params := url.Values{}
	params.Set("q", searchQuery)
	params.Set("forms", "10-K")
	params.Set("dateRange", "custom")
	params.Set("startdt", time.Now().AddDate(-2, 0, 0).Format("2006-01-02"))
	params.Set("enddt", time.Now().Format("2006-01-02"))
	params.Set("entity", entity)

	var result searchResponse
	if err := c.get(ctx, "/search-index", params, &result); err != nil {
		return nil, err
	}

	// First highlight fragment per hit, up to 5 hits
	snippets := make([]string, 0, maxSnippets)
	for _, hit := range result.Hits.Hits {
		if len(snippets) >= maxSnippets {
			break
		}
		fragments := hit.Highlight["file_contents"]
		if len(fragments) == 0 {
			continue
		}
		if snippet := cleanSnippet(fragments[0]); snippet != "" {
			snippets = append(snippets, snippet)
		}
	}

	return &models.FilingMentions{
		Count:    result.Hits.Total.Value,
		Snippets: snippets,
	}, nil
}

// cleanSnippet strips highlight markup and caps snippet length.
func cleanSnippet(fragment string) string {
	s := strings.ReplaceAll(fragment, "<em>", "")
	s = strings.ReplaceAll(s, "</em>", "")
	s = strings.TrimSpace(s)
	if len(s) > maxSnippetLen {
		s = s[:maxSnippetLen]
	}
	return s
}
