package curator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/deepdiver/internal/common"
	"github.com/ternarybob/deepdiver/internal/interfaces"
	"github.com/ternarybob/deepdiver/internal/models"
)

// Gatherer timeouts. A slow source never stalls the pipeline past these.
const (
	profileTimeout = 10 * time.Second
	newsTimeout    = 10 * time.Second
	filingsTimeout = 15 * time.Second
)

// EvidenceService collects classification evidence from the market data
// and filing search providers. Each gatherer is failure-isolated: an
// unavailable source contributes empty evidence plus a diagnostic, never
// an error.
type EvidenceService struct {
	market          interfaces.MarketDataService
	filings         interfaces.FilingSearchService
	logger          arbor.ILogger
	newsWindowDays  int
	newsMaxArticles int
}

// NewEvidenceService creates an evidence service.
func NewEvidenceService(
	market interfaces.MarketDataService,
	filings interfaces.FilingSearchService,
	config *common.CuratorConfig,
	logger arbor.ILogger,
) *EvidenceService {
	newsWindowDays := config.NewsWindowDays
	if newsWindowDays <= 0 {
		newsWindowDays = 7
	}
	newsMaxArticles := config.NewsMaxArticles
	if newsMaxArticles <= 0 {
		newsMaxArticles = 10
	}

	return &EvidenceService{
		market:          market,
		filings:         filings,
		logger:          logger,
		newsWindowDays:  newsWindowDays,
		newsMaxArticles: newsMaxArticles,
	}
}

// Gather collects profile, news, and filing evidence for a ticker. The
// profile and news gatherers run concurrently; the filings gatherer runs
// in parallel but waits for the company name from the profile (falling
// back to the ticker when the profile is unavailable).
func (s *EvidenceService) Gather(ctx context.Context, ticker string) *models.EvidenceBundle {
	bundle := &models.EvidenceBundle{
		Ticker:      ticker,
		CompanyName: ticker,
		GatheredAt:  time.Now().UTC(),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	// Filings search wants the company name; ticker is the fallback.
	nameCh := make(chan string, 1)

	addDiagnostic := func(source string, err error) {
		mu.Lock()
		bundle.Diagnostics = append(bundle.Diagnostics, fmt.Sprintf("%s: %v", source, err))
		mu.Unlock()
		s.logger.Warn().Err(err).Str("ticker", ticker).Str("source", source).Msg("Evidence gatherer failed")
	}

	wg.Add(3)

	go func() {
		defer wg.Done()
		gatherCtx, cancel := context.WithTimeout(ctx, profileTimeout)
		defer cancel()

		profile, err := s.market.GetCompanyProfile(gatherCtx, ticker)
		if err != nil {
			addDiagnostic("profile", err)
			nameCh <- ""
			return
		}

		mu.Lock()
		if profile.Name != "" {
			bundle.CompanyName = profile.Name
		}
		bundle.Sector = profile.Sector
		bundle.Description = strings.ToLower(profile.Description)
		mu.Unlock()
		nameCh <- profile.Name
	}()

	go func() {
		defer wg.Done()
		gatherCtx, cancel := context.WithTimeout(ctx, newsTimeout)
		defer cancel()

		to := time.Now()
		from := to.AddDate(0, 0, -s.newsWindowDays)

		items, err := s.market.GetCompanyNews(gatherCtx, ticker, from, to)
		if err != nil {
			addDiagnostic("news", err)
			return
		}

		if len(items) > s.newsMaxArticles {
			items = items[:s.newsMaxArticles]
		}

		texts := make([]string, 0, len(items))
		for _, item := range items {
			texts = append(texts, strings.ToLower(item.Headline+" "+item.Summary))
		}

		mu.Lock()
		bundle.NewsItems = texts
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		gatherCtx, cancel := context.WithTimeout(ctx, filingsTimeout)
		defer cancel()

		companyName := ticker
		select {
		case name := <-nameCh:
			if name != "" {
				companyName = name
			}
		case <-gatherCtx.Done():
		}

		mentions, err := s.filings.SearchAIMentions(gatherCtx, ticker, companyName)
		if err != nil {
			addDiagnostic("filings", err)
			return
		}

		mu.Lock()
		bundle.FilingCount = mentions.Count
		bundle.FilingSnippets = mentions.Snippets
		mu.Unlock()
	}()

	wg.Wait()

	return bundle
}
