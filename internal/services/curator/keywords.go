// -----------------------------------------------------------------------
// Keyword scoring - deterministic first stage of AI classification
// Scores company descriptions and news against a tiered keyword taxonomy
// -----------------------------------------------------------------------

package curator

import (
	"fmt"
	"strings"

	"github.com/ternarybob/deepdiver/internal/models"
)

// Keyword tier weights.
const (
	tier1Points = 10
	tier2Points = 5
	tier3Points = 2
)

// maxScore caps the keyword score.
const maxScore = 100

// hasAIThreshold is the score at which a company counts as AI-involved.
const hasAIThreshold = 40

// maxEvidenceEntries bounds the evidence trail on presented records.
// Category matching always uses the full trail.
const maxEvidenceEntries = 5

// tier1Keywords are strong AI signals (10 points each).
var tier1Keywords = []string{
	"artificial intelligence",
	"machine learning",
	"deep learning",
	"neural network",
	"large language model",
	"llm",
	"generative ai",
	"gpt",
	"transformer model",
	"ai chip",
	"gpu inference",
	"nvidia gpu",
	"neural processor",
	"tpu",
	"ai accelerator",
}

// tier2Keywords are moderate AI signals (5 points each).
var tier2Keywords = []string{
	"openai partnership",
	"anthropic",
	"ai partnership",
	"data center",
	"cloud ai",
	"ai-powered",
	"ai integration",
	"automation",
	"predictive analytics",
	"computer vision",
	"natural language processing",
	"nlp",
	"ai model",
}

// tier3Keywords are weak signals (2 points each). Too noisy for most
// universes, so they only count when explicitly enabled.
var tier3Keywords = []string{
	"algorithm",
	"data science",
	"analytics platform",
	"intelligent",
	"smart technology",
	"automated",
}

// categoryKeywords map evidence text to a category. Order matters:
// chip beats software beats cloud when evidence matches several.
var categoryKeywords = []struct {
	category models.Category
	keywords []string
}{
	{models.CategoryAIChip, []string{
		"gpu",
		"ai chip",
		"neural processor",
		"tpu",
		"ai accelerator",
		"nvidia",
		"cuda",
	}},
	{models.CategoryAISoftware, []string{
		"llm",
		"generative ai",
		"ai platform",
		"ai agent",
		"chatgpt",
		"gpt",
	}},
	{models.CategoryAICloud, []string{
		"ai inference",
		"model training",
		"ai infrastructure",
		"gpu cloud",
	}},
}

// ScoreEvidence scores an evidence bundle against the keyword taxonomy.
// Pure function: no I/O, no shared state, deterministic for a given input.
//
// Rules:
//   - Description: every matching tier-1 (+10) and tier-2 (+5) keyword counts.
//   - News: at most one tier-1 and one tier-2 match per article.
//   - Weak tier-3 keywords (+2) only count when includeWeakSignals is set,
//     capped at one match per text the same way as the other news tiers.
//   - Score is clamped to [0,100]; has_ai at score >= 40.
//   - Category is matched against the full evidence trail in priority
//     order (chip, software, cloud); default ai_beneficiary.
func ScoreEvidence(bundle *models.EvidenceBundle, includeWeakSignals bool) models.KeywordScore {
	score := 0
	evidence := []string{}

	description := strings.ToLower(bundle.Description)
	if description != "" {
		for _, keyword := range tier1Keywords {
			if strings.Contains(description, keyword) {
				score += tier1Points
				evidence = append(evidence, fmt.Sprintf("Description: '%s'", keyword))
			}
		}
		for _, keyword := range tier2Keywords {
			if strings.Contains(description, keyword) {
				score += tier2Points
				evidence = append(evidence, fmt.Sprintf("Description: '%s'", keyword))
			}
		}
		if includeWeakSignals {
			for _, keyword := range tier3Keywords {
				if strings.Contains(description, keyword) {
					score += tier3Points
					evidence = append(evidence, fmt.Sprintf("Description: '%s'", keyword))
				}
			}
		}
	}

	for _, item := range bundle.NewsItems {
		text := strings.ToLower(item)

		// Count once per article per tier
		for _, keyword := range tier1Keywords {
			if strings.Contains(text, keyword) {
				score += tier1Points
				evidence = append(evidence, fmt.Sprintf("News: '%s' in headline", keyword))
				break
			}
		}
		for _, keyword := range tier2Keywords {
			if strings.Contains(text, keyword) {
				score += tier2Points
				break
			}
		}
		if includeWeakSignals {
			for _, keyword := range tier3Keywords {
				if strings.Contains(text, keyword) {
					score += tier3Points
					break
				}
			}
		}
	}

	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}

	category := models.CategoryAIBeneficiary
	if score > 0 {
		category = categorize(evidence)
	}

	return models.KeywordScore{
		Score:    score,
		Category: category,
		HasAI:    score >= hasAIThreshold,
		Evidence: evidence,
	}
}

// categorize determines the AI category from the evidence trail.
func categorize(evidence []string) models.Category {
	evidenceText := strings.ToLower(strings.Join(evidence, " "))

	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(evidenceText, keyword) {
				return entry.category
			}
		}
	}

	return models.CategoryAIBeneficiary
}

// capEvidence bounds the evidence trail for presentation.
func capEvidence(evidence []string) []string {
	if len(evidence) > maxEvidenceEntries {
		return evidence[:maxEvidenceEntries]
	}
	return evidence
}
