// -----------------------------------------------------------------------
// Curator service - orchestrates the AI classification pipeline
// Stage 1: evidence gathering  Stage 2: keyword scoring
// Stage 3: LLM adjudication (borderline scores only)
// -----------------------------------------------------------------------

package curator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/deepdiver/internal/common"
	"github.com/ternarybob/deepdiver/internal/interfaces"
	"github.com/ternarybob/deepdiver/internal/models"
)

// Adjudication band. Scores strictly above the band are confident AI
// builders; strictly below are minimal involvement. Both skip the LLM.
const (
	adjudicateLowBound  = 30
	adjudicateHighBound = 70
)

// Service runs the full classification pipeline for a ticker.
type Service struct {
	evidence    *EvidenceService
	adjudicator *Adjudicator
	config      *common.CuratorConfig
	logger      arbor.ILogger
}

// NewService wires the pipeline from injected providers.
func NewService(
	market interfaces.MarketDataService,
	filings interfaces.FilingSearchService,
	generator interfaces.ContentGenerator,
	config *common.CuratorConfig,
	logger arbor.ILogger,
) *Service {
	return &Service{
		evidence:    NewEvidenceService(market, filings, config, logger),
		adjudicator: NewAdjudicator(generator, "", logger),
		config:      config,
		logger:      logger,
	}
}

// Classify runs the three-stage pipeline for a ticker and always returns
// a complete classification. Provider failures degrade to partial
// evidence; an unexpected panic degrades to the minimal zero-score
// result. Classify never returns an error to the caller.
func (s *Service) Classify(ctx context.Context, ticker string) (result models.Classification) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	// Outer recovery boundary: a misbehaving stage must not take down a
	// batch scan. The fallback is the minimal non-AI record.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("ticker", ticker).Str("panic", fmt.Sprintf("%v", r)).Msg("Classification pipeline panicked")
			result = models.Classification{
				Ticker:           ticker,
				CompanyName:      ticker,
				Score:            0,
				Category:         models.CategoryAIBeneficiary,
				InvolvementLevel: models.InvolvementUseAI,
				HasAI:            false,
				Diagnostics:      []string{"pipeline failure, minimal result returned"},
				ClassifiedAt:     time.Now().UTC(),
			}
		}
	}()

	// Stage 1: gather evidence (failure-isolated per source)
	bundle := s.evidence.Gather(ctx, ticker)

	// Stage 2: deterministic keyword scoring
	keyword := ScoreEvidence(bundle, s.config.IncludeWeakSignals)

	result = models.Classification{
		Ticker:       ticker,
		CompanyName:  bundle.CompanyName,
		Sector:       bundle.Sector,
		Score:        keyword.Score,
		Category:     keyword.Category,
		HasAI:        keyword.HasAI,
		FilingCount:  bundle.FilingCount,
		Evidence:     capEvidence(keyword.Evidence),
		Diagnostics:  bundle.Diagnostics,
		ClassifiedAt: time.Now().UTC(),
	}

	// Stage 3: route on score
	switch {
	case keyword.Score > adjudicateHighBound:
		// High confidence AI company, skip LLM cost
		result.InvolvementLevel = models.InvolvementBuildAI

	case keyword.Score < adjudicateLowBound:
		// Low score, minimal AI involvement
		result.InvolvementLevel = models.InvolvementUseAI

	default:
		adjudication := s.adjudicator.Adjudicate(ctx, bundle, keyword)
		result.Score = adjudication.AdjustedScore
		result.Category = adjudication.Category
		result.InvolvementLevel = adjudication.InvolvementLevel
		result.Reasoning = adjudication.Reasoning
		result.Adjudicated = true
	}

	if err := result.Validate(); err != nil {
		// Validation failure means a pipeline bug; log it and fall back to
		// enum-safe values rather than emitting a malformed record.
		s.logger.Error().Err(err).Str("ticker", ticker).Msg("Classification failed schema validation")
		if !result.Category.IsValid() {
			result.Category = models.CategoryAIBeneficiary
		}
		if !result.InvolvementLevel.IsValid() {
			result.InvolvementLevel = models.InvolvementUseAI
		}
		result.Score = clampScore(result.Score)
	}

	s.logger.Info().
		Str("ticker", ticker).
		Int("score", result.Score).
		Str("category", string(result.Category)).
		Str("involvement_level", string(result.InvolvementLevel)).
		Bool("adjudicated", result.Adjudicated).
		Msg("Classified stock")

	return result
}
