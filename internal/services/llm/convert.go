package llm

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"google.golang.org/genai"

	"github.com/ternarybob/deepdiver/internal/interfaces"
)

// convertMessagesToClaude converts []interfaces.Message to Claude MessageParam format.
// Maps Role values to provider's expected values and maintains chronological ordering.
// Extracts system messages separately for use with System parameter.
// Returns the user/assistant messages, the first system message content (if any), and an error.
func convertMessagesToClaude(messages []interfaces.Message) ([]anthropic.MessageParam, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("messages cannot be empty")
	}

	hasUserMessage := false
	for _, msg := range messages {
		if msg.Role == "user" {
			hasUserMessage = true
			break
		}
	}
	if !hasUserMessage {
		return nil, "", fmt.Errorf("at least one message must have role 'user'")
	}

	claudeMessages := make([]anthropic.MessageParam, 0, len(messages))
	var systemText string
	for _, msg := range messages {
		// Handle system messages separately
		if msg.Role == "system" {
			if systemText == "" {
				systemText = msg.Content
			}
			continue
		}

		switch msg.Role {
		case "assistant":
			claudeMessages = append(claudeMessages, anthropic.NewAssistantMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		case "user":
			claudeMessages = append(claudeMessages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		default:
			// Default to user for unknown roles
			claudeMessages = append(claudeMessages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		}
	}

	return claudeMessages, systemText, nil
}

// convertMessagesToGemini converts []interfaces.Message to Gemini Content format.
// Maps Role values to provider's expected values and maintains chronological ordering.
// Extracts system messages separately for use with SystemInstruction.
// Returns the user/model messages, the first system message content (if any), and an error.
func convertMessagesToGemini(messages []interfaces.Message) ([]*genai.Content, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("messages cannot be empty")
	}

	hasUserMessage := false
	for _, msg := range messages {
		if msg.Role == "user" {
			hasUserMessage = true
			break
		}
	}
	if !hasUserMessage {
		return nil, "", fmt.Errorf("at least one message must have role 'user'")
	}

	contents := make([]*genai.Content, 0, len(messages))
	var systemText string
	for _, msg := range messages {
		// Handle system messages separately
		if msg.Role == "system" {
			if systemText == "" {
				systemText = msg.Content
			}
			continue
		}

		var geminiRole string
		switch msg.Role {
		case "assistant":
			geminiRole = genai.RoleModel
		case "user":
			geminiRole = genai.RoleUser
		default:
			geminiRole = genai.RoleUser
		}

		part := genai.NewPartFromText(msg.Content)
		content := &genai.Content{
			Role:  geminiRole,
			Parts: []*genai.Part{part},
		}

		contents = append(contents, content)
	}

	return contents, systemText, nil
}
