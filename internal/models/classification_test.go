package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseCategory verifies parsing and the beneficiary fallback
func TestParseCategory(t *testing.T) {
	category, ok := ParseCategory("ai_chip")
	assert.True(t, ok)
	assert.Equal(t, CategoryAIChip, category)

	category, ok = ParseCategory("ai_everything")
	assert.False(t, ok)
	assert.Equal(t, CategoryAIBeneficiary, category, "unknown values fall back to beneficiary")

	category, ok = ParseCategory("")
	assert.False(t, ok)
	assert.Equal(t, CategoryAIBeneficiary, category)
}

// TestParseInvolvementLevel verifies parsing and the use_ai fallback
func TestParseInvolvementLevel(t *testing.T) {
	level, ok := ParseInvolvementLevel("build_ai")
	assert.True(t, ok)
	assert.Equal(t, InvolvementBuildAI, level)

	level, ok = ParseInvolvementLevel("dominates_ai")
	assert.False(t, ok)
	assert.Equal(t, InvolvementUseAI, level, "unknown values fall back to use_ai")
}

// TestCategoryIsValid verifies the known value set
func TestCategoryIsValid(t *testing.T) {
	for _, c := range []Category{
		CategoryAIChip, CategoryAISoftware, CategoryAICloud,
		CategoryAIInfrastructure, CategoryAIBeneficiary,
	} {
		assert.True(t, c.IsValid(), c.String())
	}
	assert.False(t, Category("ai_misc").IsValid())
}

func validClassification() Classification {
	return Classification{
		Ticker:           "NVDA",
		CompanyName:      "NVIDIA Corp",
		Score:            85,
		Category:         CategoryAIChip,
		InvolvementLevel: InvolvementBuildAI,
		HasAI:            true,
		FilingCount:      3,
		ClassifiedAt:     time.Now().UTC(),
	}
}

// TestClassification_Validate verifies schema enforcement on the final record
func TestClassification_Validate(t *testing.T) {
	c := validClassification()
	require.NoError(t, c.Validate())

	tests := []struct {
		name   string
		mutate func(*Classification)
	}{
		{name: "missing ticker", mutate: func(c *Classification) { c.Ticker = "" }},
		{name: "score above 100", mutate: func(c *Classification) { c.Score = 101 }},
		{name: "negative score", mutate: func(c *Classification) { c.Score = -1 }},
		{name: "unknown category", mutate: func(c *Classification) { c.Category = "ai_misc" }},
		{name: "unknown involvement level", mutate: func(c *Classification) { c.InvolvementLevel = "dominates_ai" }},
		{name: "negative filing count", mutate: func(c *Classification) { c.FilingCount = -1 }},
		{name: "reasoning over limit", mutate: func(c *Classification) { c.Reasoning = strings.Repeat("x", 501) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validClassification()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
	t.Log("PASS: Validator rejects malformed classifications")
}

// TestClassification_ToMap verifies the storage metadata conversion
func TestClassification_ToMap(t *testing.T) {
	c := validClassification()

	m, err := c.ToMap()
	require.NoError(t, err)

	assert.Equal(t, "NVDA", m["ticker"])
	assert.Equal(t, "ai_chip", m["category"])
	assert.Equal(t, float64(85), m["score"])
	assert.Equal(t, true, m["has_ai"])
}
