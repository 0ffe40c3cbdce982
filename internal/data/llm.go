package data

import (
	"context"

	"github.com/peximo/slack-llm-translate/internal/biz/repo"
	"github.com/peximo/slack-llm-translate/internal/infra/llm"
)

// llmRepo implements the LLM repository over the infra client
type llmRepo struct {
	client *llm.Client
}

// NewLLMRepo creates an LLM repository
func NewLLMRepo(client *llm.Client) repo.LLMRepo {
	if client == nil {
		return nil
	}
	return &llmRepo{client: client}
}

// Chat sends a system prompt and user message to the backend
func (r *llmRepo) Chat(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	return r.client.Chat(ctx, systemPrompt, userMessage)
}
