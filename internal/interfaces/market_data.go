package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/deepdiver/internal/models"
)

// MarketDataService provides company fundamentals and news.
type MarketDataService interface {
	// GetCompanyProfile retrieves the company profile for a ticker.
	GetCompanyProfile(ctx context.Context, ticker string) (*models.CompanyProfile, error)

	// GetCompanyNews retrieves news articles for a ticker within a date range.
	GetCompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]models.NewsItem, error)
}
