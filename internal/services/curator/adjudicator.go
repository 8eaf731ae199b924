// -----------------------------------------------------------------------
// Adjudicator - LLM refinement stage for borderline keyword scores
// Every failure path converts to a safe default; nothing propagates
// -----------------------------------------------------------------------

package curator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/deepdiver/internal/interfaces"
	"github.com/ternarybob/deepdiver/internal/models"
)

const (
	// adjudicationMaxTokens caps the completion size. The response is a
	// small JSON object; anything longer is waste.
	adjudicationMaxTokens = 200

	// maxReasoningLen truncates LLM reasoning on the stored record.
	maxReasoningLen = 500

	// maxPromptSnippets bounds filing snippets included in the prompt.
	maxPromptSnippets = 3
)

// Adjudication is the outcome of the LLM refinement stage.
type Adjudication struct {
	InvolvementLevel models.InvolvementLevel
	Category         models.Category
	AdjustedScore    int
	Reasoning        string
}

// adjudicationPayload mirrors the JSON object the model is asked to emit.
// AdjustedScore is a json.Number so integer and float renditions both parse.
type adjudicationPayload struct {
	InvolvementLevel string      `json:"involvement_level"`
	Category         string      `json:"category"`
	AdjustedScore    json.Number `json:"adjusted_score"`
	Reasoning        string      `json:"reasoning"`
}

// Adjudicator refines borderline classifications with a single LLM call.
type Adjudicator struct {
	generator interfaces.ContentGenerator
	model     string
	logger    arbor.ILogger
}

// NewAdjudicator creates an adjudicator using the given content generator.
// An empty model selects the generator's default provider and model.
func NewAdjudicator(generator interfaces.ContentGenerator, model string, logger arbor.ILogger) *Adjudicator {
	return &Adjudicator{
		generator: generator,
		model:     model,
		logger:    logger,
	}
}

// safeDefault is the adjudication returned when the LLM is unavailable or
// its output cannot be trusted: keep the keyword score and category, assume
// the most conservative involvement level.
func (a *Adjudicator) safeDefault(keyword models.KeywordScore, reason string) Adjudication {
	return Adjudication{
		InvolvementLevel: models.InvolvementUseAI,
		Category:         keyword.Category,
		AdjustedScore:    keyword.Score,
		Reasoning:        reason,
	}
}

// Adjudicate asks the LLM to classify involvement level and category and
// to adjust the keyword score. Never returns an error: any failure yields
// the safe default.
func (a *Adjudicator) Adjudicate(ctx context.Context, bundle *models.EvidenceBundle, keyword models.KeywordScore) Adjudication {
	fallback := a.safeDefault(keyword, "LLM validation unavailable, using keyword score.")

	if a.generator == nil {
		return fallback
	}

	prompt := a.buildPrompt(bundle, keyword)

	response, err := a.generator.GenerateContent(ctx, &interfaces.ContentRequest{
		Messages: []interfaces.Message{
			{Role: "user", Content: prompt},
		},
		Model:       a.model,
		Temperature: 0,
		MaxTokens:   adjudicationMaxTokens,
	})
	if err != nil {
		a.logger.Warn().Err(err).Str("ticker", bundle.Ticker).Msg("Adjudication call failed")
		fallback.Reasoning = truncate("LLM error: "+err.Error(), 100)
		return fallback
	}

	payload, err := parseAdjudication(response.Text)
	if err != nil {
		a.logger.Warn().Err(err).Str("ticker", bundle.Ticker).Msg("Adjudication response unparseable")
		fallback.Reasoning = truncate("LLM error: "+err.Error(), 100)
		return fallback
	}

	result := Adjudication{
		InvolvementLevel: models.InvolvementUseAI,
		Category:         keyword.Category,
		AdjustedScore:    keyword.Score,
		Reasoning:        truncate(payload.Reasoning, maxReasoningLen),
	}

	if level, ok := models.ParseInvolvementLevel(payload.InvolvementLevel); ok {
		result.InvolvementLevel = level
	}
	if category, ok := models.ParseCategory(payload.Category); ok {
		result.Category = category
	}
	if score, err := payload.AdjustedScore.Int64(); err == nil {
		result.AdjustedScore = clampScore(int(score))
	} else if f, err := payload.AdjustedScore.Float64(); err == nil {
		result.AdjustedScore = clampScore(int(f))
	}

	return result
}

// buildPrompt renders the adjudication prompt from the evidence bundle
// and keyword score.
func (a *Adjudicator) buildPrompt(bundle *models.EvidenceBundle, keyword models.KeywordScore) string {
	sector := bundle.Sector
	if sector == "" {
		sector = "Unknown"
	}

	evidenceText := strings.Join(keyword.Evidence, " | ")
	if evidenceText == "" {
		evidenceText = "None"
	}

	snippets := bundle.FilingSnippets
	if len(snippets) > maxPromptSnippets {
		snippets = snippets[:maxPromptSnippets]
	}
	snippetText := strings.Join(snippets, "\n")
	if snippetText == "" {
		snippetText = "No SEC filings found."
	}

	return fmt.Sprintf(`You are classifying a stock's relationship to AI for a trading system.

Company: %s (%s)
Sector: %s
Keyword Evidence: %s
Keyword Score: %d / 100
SEC 10-K AI Mentions: %d filing(s) found
SEC Snippets:
%s

Classify this company using BOTH fields:

involvement_level - choose one:
- "research_ai": Core business IS AI research (dedicated AI labs, publishes AI papers, AI patents are primary IP)
- "build_ai": Builds and SELLS AI products as primary business (AI chips, LLM platforms, AI SaaS)
- "leverage_ai": Uses AI to SIGNIFICANTLY enhance existing products or margins
- "use_ai": Uses off-the-shelf AI tools operationally

category - choose one:
- "ai_chip": Designs/manufactures AI processors (GPUs, TPUs, neural chips)
- "ai_software": Builds AI applications, LLMs, or AI-native platforms
- "ai_cloud": Provides AI infrastructure (training, inference, cloud AI services)
- "ai_infrastructure": Enables AI (data centers, networking, storage for AI workloads)
- "ai_beneficiary": Benefits from AI adoption but AI isn't core to product

adjusted_score: Start from %d, adjust by at most +/-20.

Return ONLY valid JSON, no markdown:
{
  "involvement_level": "...",
  "category": "...",
  "adjusted_score": <integer 0-100>,
  "reasoning": "<one sentence>"
}`,
		bundle.CompanyName, bundle.Ticker, sector, evidenceText,
		keyword.Score, bundle.FilingCount, snippetText, keyword.Score)
}

// parseAdjudication extracts the JSON object from raw model output.
// Strips markdown code fences, then takes the region between the first
// '{' and last '}' to tolerate leading or trailing prose.
func parseAdjudication(raw string) (*adjudicationPayload, error) {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		parts := strings.Split(raw, "```")
		if len(parts) > 1 {
			raw = parts[1]
		}
		raw = strings.TrimSpace(raw)
		if strings.HasPrefix(raw, "json") {
			raw = strings.TrimSpace(raw[4:])
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}
	raw = raw[start : end+1]

	var payload adjudicationPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON in response: %w", err)
	}

	return &payload, nil
}

// clampScore clamps a score to [0,100].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// truncate caps a string to n bytes.
func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
