package interfaces

import "context"

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// ContentRequest represents a provider-agnostic content generation request
type ContentRequest struct {
	Messages          []Message
	Model             string
	Temperature       float32
	MaxTokens         int
	SystemInstruction string
}

// ContentResponse represents a provider-agnostic content generation response
type ContentResponse struct {
	Text     string
	Provider string
	Model    string
}

// ContentGenerator defines the interface for AI content generation.
// Implementations route requests to the configured provider (Claude, Gemini).
type ContentGenerator interface {
	// GenerateContent generates a completion for the given request.
	GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error)

	// Close releases provider client resources.
	Close() error
}
