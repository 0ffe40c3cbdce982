package data

import (
	"github.com/peximo/slack-llm-translate/internal/biz/repo"
	"github.com/peximo/slack-llm-translate/internal/infra/llm"
)

// Repositories contains all repositories
type Repositories struct {
	Conversation repo.ConversationRepo
	LLM          repo.LLMRepo
}

// NewRepositories creates all repositories
func NewRepositories(llmClient *llm.Client, dbPath string) (*Repositories, error) {
	convRepo, err := NewConversationRepo(dbPath)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Conversation: convRepo,
		LLM:          NewLLMRepo(llmClient),
	}, nil
}
