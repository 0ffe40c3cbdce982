package repo

import "context"

// LLMRepo is the language model backend interface.
// Implementations wrap an OpenAI-compatible endpoint, cloud or local.
type LLMRepo interface {
	// Chat sends a system prompt and user message, returning the
	// model's text response.
	Chat(ctx context.Context, systemPrompt, userMessage string) (string, error)
}
