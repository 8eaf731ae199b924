// -----------------------------------------------------------------------
// Classification - Schema definitions for AI-relevance classification
// Provides strongly-typed structures for the curation pipeline output
// -----------------------------------------------------------------------

package models

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
)

// Category represents the AI business category assigned to a stock.
type Category string

const (
	// CategoryAIChip - semiconductor and accelerator companies (GPUs, TPUs, custom silicon)
	CategoryAIChip Category = "ai_chip"
	// CategoryAISoftware - companies building AI models, platforms, or agents
	CategoryAISoftware Category = "ai_software"
	// CategoryAICloud - AI inference, training, and GPU cloud providers
	CategoryAICloud Category = "ai_cloud"
	// CategoryAIInfrastructure - datacenter, networking, and power enablers
	CategoryAIInfrastructure Category = "ai_infrastructure"
	// CategoryAIBeneficiary - companies that benefit from AI without building it
	CategoryAIBeneficiary Category = "ai_beneficiary"
)

// IsValid reports whether the category is a known value.
func (c Category) IsValid() bool {
	switch c {
	case CategoryAIChip, CategoryAISoftware, CategoryAICloud,
		CategoryAIInfrastructure, CategoryAIBeneficiary:
		return true
	}
	return false
}

// String returns the category as a string.
func (c Category) String() string {
	return string(c)
}

// ParseCategory converts a raw string to a Category.
// Returns CategoryAIBeneficiary and false for unknown values.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	if c.IsValid() {
		return c, true
	}
	return CategoryAIBeneficiary, false
}

// InvolvementLevel represents how deeply a company is involved with AI.
type InvolvementLevel string

const (
	// InvolvementResearchAI - fundamental AI research organizations
	InvolvementResearchAI InvolvementLevel = "research_ai"
	// InvolvementBuildAI - companies building AI products or infrastructure
	InvolvementBuildAI InvolvementLevel = "build_ai"
	// InvolvementLeverageAI - companies embedding AI into their offerings
	InvolvementLeverageAI InvolvementLevel = "leverage_ai"
	// InvolvementUseAI - companies that merely use AI internally
	InvolvementUseAI InvolvementLevel = "use_ai"
)

// IsValid reports whether the involvement level is a known value.
func (l InvolvementLevel) IsValid() bool {
	switch l {
	case InvolvementResearchAI, InvolvementBuildAI,
		InvolvementLeverageAI, InvolvementUseAI:
		return true
	}
	return false
}

// String returns the involvement level as a string.
func (l InvolvementLevel) String() string {
	return string(l)
}

// ParseInvolvementLevel converts a raw string to an InvolvementLevel.
// Returns InvolvementUseAI and false for unknown values.
func ParseInvolvementLevel(s string) (InvolvementLevel, bool) {
	l := InvolvementLevel(s)
	if l.IsValid() {
		return l, true
	}
	return InvolvementUseAI, false
}

// CompanyProfile holds the identity fields returned by the market data provider.
type CompanyProfile struct {
	Ticker      string `json:"ticker"`
	Name        string `json:"name"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`
	Description string `json:"description"`
	Exchange    string `json:"exchange"`
	WebURL      string `json:"web_url"`
}

// NewsItem is a single news article about a company.
type NewsItem struct {
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// FilingMentions summarizes regulatory-filing search results for a ticker.
type FilingMentions struct {
	Count    int      `json:"count"`
	Snippets []string `json:"snippets"`
}

// EvidenceBundle is the merged output of the evidence gatherers.
// Text fields are lowercased for keyword matching. Diagnostics record
// gatherer failures without failing the bundle.
type EvidenceBundle struct {
	Ticker         string    `json:"ticker"`
	CompanyName    string    `json:"company_name"`
	Sector         string    `json:"sector"`
	Description    string    `json:"description"`
	NewsItems      []string  `json:"news_items"`
	FilingCount    int       `json:"filing_count"`
	FilingSnippets []string  `json:"filing_snippets"`
	Diagnostics    []string  `json:"diagnostics,omitempty"`
	GatheredAt     time.Time `json:"gathered_at"`
}

// KeywordScore is the result of the deterministic keyword scoring stage.
// Evidence holds the full match trail; callers cap it for presentation.
type KeywordScore struct {
	Score    int      `json:"score"`
	Category Category `json:"category"`
	HasAI    bool     `json:"has_ai"`
	Evidence []string `json:"evidence"`
}

// Classification is the final output record of the curation pipeline.
// All fields are validated using go-playground/validator tags.
type Classification struct {
	Ticker           string           `json:"ticker" validate:"required"`
	CompanyName      string           `json:"company_name"`
	Sector           string           `json:"sector,omitempty"`
	Score            int              `json:"score" validate:"min=0,max=100"`
	Category         Category         `json:"category" validate:"required,oneof=ai_chip ai_software ai_cloud ai_infrastructure ai_beneficiary"`
	InvolvementLevel InvolvementLevel `json:"involvement_level" validate:"required,oneof=research_ai build_ai leverage_ai use_ai"`
	HasAI            bool             `json:"has_ai"`
	FilingCount      int              `json:"filing_count" validate:"gte=0"`
	Evidence         []string         `json:"evidence,omitempty"`
	Reasoning        string           `json:"reasoning,omitempty" validate:"max=500"`
	Adjudicated      bool             `json:"adjudicated"`
	Diagnostics      []string         `json:"diagnostics,omitempty"`
	ClassifiedAt     time.Time        `json:"classified_at"`
}

// Validate validates the classification using go-playground/validator.
// Returns an error if any required fields are missing or invalid.
func (c *Classification) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// ToMap converts the classification to a map for storage metadata.
// Uses JSON marshal/unmarshal for clean type conversion.
func (c *Classification) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	return result, nil
}
