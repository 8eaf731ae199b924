package curator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/deepdiver/internal/interfaces"
	"github.com/ternarybob/deepdiver/internal/models"
)

// fakeGenerator returns a canned response or error and records requests.
type fakeGenerator struct {
	text     string
	err      error
	requests []*interfaces.ContentRequest
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, request *interfaces.ContentRequest) (*interfaces.ContentResponse, error) {
	f.requests = append(f.requests, request)
	if f.err != nil {
		return nil, f.err
	}
	return &interfaces.ContentResponse{Text: f.text, Provider: "fake", Model: "fake-model"}, nil
}

func (f *fakeGenerator) Close() error { return nil }

func borderlineInputs() (*models.EvidenceBundle, models.KeywordScore) {
	bundle := &models.EvidenceBundle{
		Ticker:         "ORCL",
		CompanyName:    "Oracle Corp",
		Sector:         "Technology",
		FilingCount:    4,
		FilingSnippets: []string{"uses artificial intelligence in cloud operations"},
	}
	keyword := models.KeywordScore{
		Score:    45,
		Category: models.CategoryAIBeneficiary,
		HasAI:    true,
		Evidence: []string{"Description: 'cloud ai'"},
	}
	return bundle, keyword
}

// TestAdjudicate_ParsesJSONVariants verifies fence-stripping and brace
// extraction across response shapes
func TestAdjudicate_ParsesJSONVariants(t *testing.T) {
	payload := `{"involvement_level": "leverage_ai", "category": "ai_cloud", "adjusted_score": 55, "reasoning": "Cloud AI services are a major revenue line."}`

	tests := []struct {
		name string
		text string
	}{
		{name: "bare JSON", text: payload},
		{name: "fenced JSON", text: "```json\n" + payload + "\n```"},
		{name: "fenced without language", text: "```\n" + payload + "\n```"},
		{name: "leading prose", text: "Here is the classification you asked for:\n" + payload},
		{name: "trailing prose", text: payload + "\nLet me know if you need anything else."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := &fakeGenerator{text: tt.text}
			adjudicator := NewAdjudicator(generator, "", arbor.NewLogger())

			bundle, keyword := borderlineInputs()
			result := adjudicator.Adjudicate(context.Background(), bundle, keyword)

			assert.Equal(t, models.InvolvementLeverageAI, result.InvolvementLevel)
			assert.Equal(t, models.CategoryAICloud, result.Category)
			assert.Equal(t, 55, result.AdjustedScore)
			assert.Equal(t, "Cloud AI services are a major revenue line.", result.Reasoning)
		})
	}
}

// TestAdjudicate_RefusalFallsBack verifies conversational non-JSON output
// degrades to the safe default
func TestAdjudicate_RefusalFallsBack(t *testing.T) {
	generator := &fakeGenerator{text: "Sorry, I cannot help."}
	adjudicator := NewAdjudicator(generator, "", arbor.NewLogger())

	bundle, keyword := borderlineInputs()
	result := adjudicator.Adjudicate(context.Background(), bundle, keyword)

	assert.Equal(t, models.InvolvementUseAI, result.InvolvementLevel)
	assert.Equal(t, keyword.Category, result.Category)
	assert.Equal(t, keyword.Score, result.AdjustedScore)
	t.Log("PASS: Refusal text degrades to safe default")
}

// TestAdjudicate_InvalidEnumsFallBack verifies per-field fallbacks when the
// JSON parses but carries unknown enum values
func TestAdjudicate_InvalidEnumsFallBack(t *testing.T) {
	generator := &fakeGenerator{
		text: `{"involvement_level": "dominates_ai", "category": "ai_everything", "adjusted_score": 60, "reasoning": "ok"}`,
	}
	adjudicator := NewAdjudicator(generator, "", arbor.NewLogger())

	bundle, keyword := borderlineInputs()
	result := adjudicator.Adjudicate(context.Background(), bundle, keyword)

	assert.Equal(t, models.InvolvementUseAI, result.InvolvementLevel, "unknown level falls back to use_ai")
	assert.Equal(t, keyword.Category, result.Category, "unknown category falls back to keyword category")
	assert.Equal(t, 60, result.AdjustedScore, "valid score still applied")
}

// TestAdjudicate_ScoreClamped verifies out-of-range scores clamp to [0,100]
func TestAdjudicate_ScoreClamped(t *testing.T) {
	tests := []struct {
		name     string
		score    string
		expected int
	}{
		{name: "above range", score: "999", expected: 100},
		{name: "below range", score: "-5", expected: 0},
		{name: "float rendition", score: "62.7", expected: 62},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := &fakeGenerator{
				text: `{"involvement_level": "leverage_ai", "category": "ai_software", "adjusted_score": ` + tt.score + `, "reasoning": "x"}`,
			}
			adjudicator := NewAdjudicator(generator, "", arbor.NewLogger())

			bundle, keyword := borderlineInputs()
			result := adjudicator.Adjudicate(context.Background(), bundle, keyword)

			assert.Equal(t, tt.expected, result.AdjustedScore)
		})
	}
}

// TestAdjudicate_ReasoningTruncated verifies the 500 char reasoning cap
func TestAdjudicate_ReasoningTruncated(t *testing.T) {
	long := strings.Repeat("x", 900)
	generator := &fakeGenerator{
		text: `{"involvement_level": "build_ai", "category": "ai_software", "adjusted_score": 50, "reasoning": "` + long + `"}`,
	}
	adjudicator := NewAdjudicator(generator, "", arbor.NewLogger())

	bundle, keyword := borderlineInputs()
	result := adjudicator.Adjudicate(context.Background(), bundle, keyword)

	assert.Len(t, result.Reasoning, 500)
}

// TestAdjudicate_GeneratorError verifies provider failures degrade safely
func TestAdjudicate_GeneratorError(t *testing.T) {
	generator := &fakeGenerator{err: errors.New("429 RESOURCE_EXHAUSTED")}
	adjudicator := NewAdjudicator(generator, "", arbor.NewLogger())

	bundle, keyword := borderlineInputs()
	result := adjudicator.Adjudicate(context.Background(), bundle, keyword)

	assert.Equal(t, models.InvolvementUseAI, result.InvolvementLevel)
	assert.Equal(t, keyword.Score, result.AdjustedScore)
	assert.Contains(t, result.Reasoning, "LLM error")
	t.Log("PASS: Provider error degrades to safe default")
}

// TestAdjudicate_NilGenerator verifies graceful degradation without a provider
func TestAdjudicate_NilGenerator(t *testing.T) {
	adjudicator := NewAdjudicator(nil, "", arbor.NewLogger())

	bundle, keyword := borderlineInputs()
	result := adjudicator.Adjudicate(context.Background(), bundle, keyword)

	assert.Equal(t, models.InvolvementUseAI, result.InvolvementLevel)
	assert.Equal(t, keyword.Score, result.AdjustedScore)
}

// TestAdjudicate_RequestShape verifies temperature 0 and the token cap
func TestAdjudicate_RequestShape(t *testing.T) {
	generator := &fakeGenerator{
		text: `{"involvement_level": "use_ai", "category": "ai_beneficiary", "adjusted_score": 45, "reasoning": "x"}`,
	}
	adjudicator := NewAdjudicator(generator, "", arbor.NewLogger())

	bundle, keyword := borderlineInputs()
	adjudicator.Adjudicate(context.Background(), bundle, keyword)

	require.Len(t, generator.requests, 1)
	request := generator.requests[0]
	assert.Equal(t, float32(0), request.Temperature)
	assert.Equal(t, adjudicationMaxTokens, request.MaxTokens)
	assert.Contains(t, request.Messages[0].Content, "Oracle Corp (ORCL)")
	assert.Contains(t, request.Messages[0].Content, "Keyword Score: 45 / 100")
	assert.Contains(t, request.Messages[0].Content, "4 filing(s) found")
}
