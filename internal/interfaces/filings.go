package interfaces

import (
	"context"

	"github.com/ternarybob/deepdiver/internal/models"
)

// FilingSearchService searches regulatory filings for AI-related disclosures.
type FilingSearchService interface {
	// SearchAIMentions returns the number of recent filings mentioning AI
	// for the given company, plus a bounded set of matching snippets.
	SearchAIMentions(ctx context.Context, ticker, companyName string) (*models.FilingMentions, error)
}
