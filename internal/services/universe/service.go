// -----------------------------------------------------------------------
// Universe service - applies classification results to the trading
// universe and watchlist (promotion, demotion, deactivation rules)
// -----------------------------------------------------------------------

package universe

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/deepdiver/internal/common"
	"github.com/ternarybob/deepdiver/internal/interfaces"
	"github.com/ternarybob/deepdiver/internal/models"
)

// Outcome records what applying a classification changed.
type Outcome struct {
	Ticker      string `json:"ticker"`
	Promoted    bool   `json:"promoted"`
	Demoted     bool   `json:"demoted"`
	Deactivated bool   `json:"deactivated"`
}

// Service maintains the trading universe and watchlist from
// classification results.
type Service struct {
	universe  interfaces.UniverseStorage
	watchlist interfaces.WatchlistStorage
	config    *common.CuratorConfig
	logger    arbor.ILogger
}

// NewService creates a universe service.
func NewService(
	universe interfaces.UniverseStorage,
	watchlist interfaces.WatchlistStorage,
	config *common.CuratorConfig,
	logger arbor.ILogger,
) *Service {
	return &Service{
		universe:  universe,
		watchlist: watchlist,
		config:    config,
		logger:    logger,
	}
}

// Apply upserts a classification into the universe and enforces the
// watchlist rules:
//   - score >= promote threshold and active: promoted to watchlist "Watching"
//   - score < demote threshold: removed from the watchlist
//   - score < deactivate score: deactivated in the universe
func (s *Service) Apply(ctx context.Context, c *models.Classification) (*Outcome, error) {
	outcome := &Outcome{Ticker: c.Ticker}
	now := time.Now().UTC()

	stock := &models.UniverseStock{
		Ticker:           c.Ticker,
		CompanyName:      c.CompanyName,
		Sector:           c.Sector,
		Category:         c.Category,
		InvolvementLevel: c.InvolvementLevel,
		AIScore:          c.Score,
		HasAI:            c.HasAI,
		IsActive:         c.Score >= s.config.DeactivateScore,
		LastScanned:      now,
	}

	// Carry forward fields the classification does not own
	if existing, err := s.universe.Get(ctx, c.Ticker); err == nil {
		stock.Notes = existing.Notes
		stock.LastMention = existing.LastMention
	} else if err != interfaces.ErrTickerNotFound {
		return nil, fmt.Errorf("failed to load universe stock %s: %w", c.Ticker, err)
	}

	if c.Score > 0 {
		stock.LastMention = now
	}

	if !stock.IsActive {
		outcome.Deactivated = true
		stock.Notes = fmt.Sprintf("score %d below deactivation threshold %d", c.Score, s.config.DeactivateScore)
	}

	if err := s.universe.Upsert(ctx, stock); err != nil {
		return nil, fmt.Errorf("failed to upsert universe stock %s: %w", c.Ticker, err)
	}

	switch {
	case stock.IsActive && c.Score >= s.config.PromoteThreshold:
		entry := &models.WatchlistEntry{
			Ticker:         c.Ticker,
			Status:         models.WatchStatusWatching,
			SentimentScore: c.Score,
			Notes:          fmt.Sprintf("AI score %d (%s)", c.Score, c.Category),
		}
		if err := s.watchlist.Upsert(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to promote %s to watchlist: %w", c.Ticker, err)
		}
		outcome.Promoted = true
		s.logger.Info().Str("ticker", c.Ticker).Int("score", c.Score).Msg("Promoted stock to watchlist")

	case c.Score < s.config.DemoteThreshold:
		if err := s.watchlist.Remove(ctx, c.Ticker); err != nil {
			return nil, fmt.Errorf("failed to remove %s from watchlist: %w", c.Ticker, err)
		}
		outcome.Demoted = true
	}

	return outcome, nil
}

// PruneStale deactivates active stocks with no AI mention for the
// configured staleness window. Returns the tickers deactivated.
func (s *Service) PruneStale(ctx context.Context) ([]string, error) {
	staleAfter := s.config.StaleAfterDays
	if staleAfter <= 0 {
		staleAfter = 90
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -staleAfter)

	stocks, err := s.universe.List(ctx, interfaces.UniverseFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list active universe stocks: %w", err)
	}

	var deactivated []string
	for _, stock := range stocks {
		if stock.LastMention.IsZero() || stock.LastMention.After(cutoff) {
			continue
		}
		reason := fmt.Sprintf("no AI mentions since %s", stock.LastMention.Format("2006-01-02"))
		if err := s.universe.Deactivate(ctx, stock.Ticker, reason); err != nil {
			s.logger.Warn().Err(err).Str("ticker", stock.Ticker).Msg("Failed to deactivate stale stock")
			continue
		}
		if err := s.watchlist.Remove(ctx, stock.Ticker); err != nil {
			s.logger.Warn().Err(err).Str("ticker", stock.Ticker).Msg("Failed to remove stale stock from watchlist")
		}
		deactivated = append(deactivated, stock.Ticker)
	}

	return deactivated, nil
}

// ActiveUniverse returns the configured scan universe merged with active
// stored tickers, deduplicated, preserving configured order first.
func (s *Service) ActiveUniverse(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	tickers := []string{}

	for _, t := range s.config.Universe {
		if !seen[t] {
			seen[t] = true
			tickers = append(tickers, t)
		}
	}

	stored, err := s.universe.List(ctx, interfaces.UniverseFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list active universe stocks: %w", err)
	}
	for _, stock := range stored {
		if !seen[stock.Ticker] {
			seen[stock.Ticker] = true
			tickers = append(tickers, stock.Ticker)
		}
	}

	return tickers, nil
}
