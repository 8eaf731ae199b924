package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/deepdiver/internal/common"
	"github.com/ternarybob/deepdiver/internal/interfaces"
)

// ProviderType represents the AI provider type
type ProviderType string

const (
	// ProviderGemini uses Google Gemini API
	ProviderGemini ProviderType = "gemini"
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude ProviderType = "claude"
)

// ProviderFactory creates and manages AI providers.
// Implements interfaces.ContentGenerator.
type ProviderFactory struct {
	geminiConfig *common.GeminiConfig
	claudeConfig *common.ClaudeConfig
	llmConfig    *common.LLMConfig
	kvStorage    interfaces.KeyValueStorage
	logger       arbor.ILogger
	geminiClient *genai.Client
	claudeClient anthropic.Client
	geminiAPIKey string
	claudeAPIKey string
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(
	geminiConfig *common.GeminiConfig,
	claudeConfig *common.ClaudeConfig,
	llmConfig *common.LLMConfig,
	kvStorage interfaces.KeyValueStorage,
	logger arbor.ILogger,
) *ProviderFactory {
	return &ProviderFactory{
		geminiConfig: geminiConfig,
		claudeConfig: claudeConfig,
		llmConfig:    llmConfig,
		kvStorage:    kvStorage,
		logger:       logger,
	}
}

// DetectProvider determines the provider type from a model string.
// Model strings can be:
// - "claude-haiku-3-5-20241022" -> Claude
// - "claude/claude-haiku-3-5-20241022" -> Claude (with prefix)
// - "gemini-3-flash-preview" -> Gemini
// - "gemini/gemini-3-flash-preview" -> Gemini (with prefix)
// - Empty string -> uses default provider from config
func (f *ProviderFactory) DetectProvider(model string) ProviderType {
	if model == "" {
		return ProviderType(f.llmConfig.DefaultProvider)
	}

	model = strings.ToLower(model)

	// Check for explicit provider prefix
	if strings.HasPrefix(model, "claude/") || strings.HasPrefix(model, "anthropic/") {
		return ProviderClaude
	}
	if strings.HasPrefix(model, "gemini/") || strings.HasPrefix(model, "google/") {
		return ProviderGemini
	}

	// Check for model name patterns
	if strings.HasPrefix(model, "claude-") {
		return ProviderClaude
	}
	if strings.HasPrefix(model, "gemini-") {
		return ProviderGemini
	}

	// Default to configured provider
	return ProviderType(f.llmConfig.DefaultProvider)
}

// NormalizeModel removes provider prefix from model name if present
func (f *ProviderFactory) NormalizeModel(model string) string {
	prefixes := []string{"claude/", "anthropic/", "gemini/", "google/"}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToLower(model), prefix) {
			return model[len(prefix):]
		}
	}
	return model
}

// GetDefaultModel returns the default model for a provider
func (f *ProviderFactory) GetDefaultModel(provider ProviderType) string {
	switch provider {
	case ProviderClaude:
		return f.claudeConfig.Model
	case ProviderGemini:
		return f.geminiConfig.Model
	default:
		return f.geminiConfig.Model
	}
}

// GetGeminiClient returns a Gemini client, creating one if necessary
func (f *ProviderFactory) GetGeminiClient(ctx context.Context) (*genai.Client, error) {
	if f.geminiClient != nil {
		return f.geminiClient, nil
	}

	apiKey, err := common.ResolveAPIKey(ctx, f.kvStorage, "gemini_api_key", f.geminiConfig.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Gemini API key: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	f.geminiClient = client
	f.geminiAPIKey = apiKey
	return client, nil
}

// GetClaudeClient returns a Claude client, creating one if necessary
func (f *ProviderFactory) GetClaudeClient(ctx context.Context) (anthropic.Client, error) {
	// Check if client is already initialized (non-zero value)
	if f.claudeAPIKey != "" {
		return f.claudeClient, nil
	}

	apiKey, err := common.ResolveAPIKey(ctx, f.kvStorage, "anthropic_api_key", f.claudeConfig.APIKey)
	if err != nil {
		return anthropic.Client{}, fmt.Errorf("failed to resolve Anthropic API key: %w", err)
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	f.claudeClient = client
	f.claudeAPIKey = apiKey
	return client, nil
}

// GenerateContent generates content using the appropriate provider based on model
func (f *ProviderFactory) GenerateContent(ctx context.Context, request *interfaces.ContentRequest) (*interfaces.ContentResponse, error) {
	provider := f.DetectProvider(request.Model)
	model := f.NormalizeModel(request.Model)

	f.logger.Debug().
		Str("provider", string(provider)).
		Str("model", model).
		Int("message_count", len(request.Messages)).
		Msg("Generating content with provider")

	switch provider {
	case ProviderClaude:
		return f.generateWithClaude(ctx, request, model)
	case ProviderGemini:
		return f.generateWithGemini(ctx, request, model)
	default:
		return f.generateWithGemini(ctx, request, model)
	}
}

// generateWithClaude generates content using Claude API
func (f *ProviderFactory) generateWithClaude(ctx context.Context, request *interfaces.ContentRequest, model string) (*interfaces.ContentResponse, error) {
	client, err := f.GetClaudeClient(ctx)
	if err != nil {
		return nil, err
	}

	if model == "" {
		model = f.claudeConfig.Model
	}

	claudeMessages, systemText, err := convertMessagesToClaude(request.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	if request.SystemInstruction != "" {
		systemText = request.SystemInstruction
	}

	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = f.claudeConfig.MaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  claudeMessages,
	}

	// Temperature 0 is meaningful here: adjudication requires deterministic
	// output, so the request value is always forwarded.
	params.Temperature = anthropic.Float(float64(request.Temperature))

	if systemText != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemText},
		}
	}

	// Make API call with retry
	var resp *anthropic.Message
	var apiErr error
	retryConfig := NewDefaultRetryConfig()

	for attempt := 0; attempt <= retryConfig.MaxRetries; attempt++ {
		resp, apiErr = client.Messages.New(ctx, params)
		if apiErr == nil {
			break
		}

		if attempt == retryConfig.MaxRetries {
			break
		}

		backoff := time.Duration(attempt+1) * 2 * time.Second
		if IsRateLimitError(apiErr) {
			backoff = retryConfig.CalculateBackoff(attempt, 0)
		}

		f.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying Claude API call")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if apiErr != nil {
		return nil, fmt.Errorf("Claude API call failed after %d retries: %w", retryConfig.MaxRetries, apiErr)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return nil, fmt.Errorf("empty response from Claude API")
	}

	return &interfaces.ContentResponse{
		Text:     text.String(),
		Provider: string(ProviderClaude),
		Model:    model,
	}, nil
}

// generateWithGemini generates content using Gemini API
func (f *ProviderFactory) generateWithGemini(ctx context.Context, request *interfaces.ContentRequest, model string) (*interfaces.ContentResponse, error) {
	client, err := f.GetGeminiClient(ctx)
	if err != nil {
		return nil, err
	}

	if model == "" {
		model = f.geminiConfig.Model
	}

	geminiContents, systemText, err := convertMessagesToGemini(request.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	if request.SystemInstruction != "" {
		systemText = request.SystemInstruction
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(request.Temperature),
	}

	if request.MaxTokens > 0 {
		config.MaxOutputTokens = int32(request.MaxTokens)
	}

	if systemText != "" {
		config.SystemInstruction = genai.NewContentFromText(systemText, genai.RoleUser)
	}

	// Make API call with retry
	var resp *genai.GenerateContentResponse
	var apiErr error
	retryConfig := NewDefaultRetryConfig()

	for attempt := 0; attempt <= retryConfig.MaxRetries; attempt++ {
		resp, apiErr = client.Models.GenerateContent(ctx, model, geminiContents, config)
		if apiErr == nil {
			break
		}

		if attempt == retryConfig.MaxRetries {
			break
		}

		var backoff time.Duration
		if IsRateLimitError(apiErr) {
			apiDelay := ExtractRetryDelay(apiErr)
			backoff = retryConfig.CalculateBackoff(attempt, apiDelay)
		} else {
			backoff = time.Duration(attempt+1) * 2 * time.Second
		}

		f.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying Gemini API call")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if apiErr != nil {
		return nil, fmt.Errorf("Gemini API call failed after %d retries: %w", retryConfig.MaxRetries, apiErr)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini API")
	}

	responseText := resp.Text()
	if responseText == "" {
		return nil, fmt.Errorf("empty text in Gemini response")
	}

	return &interfaces.ContentResponse{
		Text:     responseText,
		Provider: string(ProviderGemini),
		Model:    model,
	}, nil
}

// Close releases provider client resources.
func (f *ProviderFactory) Close() error {
	f.geminiClient = nil
	f.claudeAPIKey = ""
	return nil
}
