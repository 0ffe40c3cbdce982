package biz

import (
	"github.com/peximo/slack-llm-translate/internal/biz/usecase"
)

// Usecases contains all usecases
type Usecases struct {
	Context      *usecase.ContextBuilder
	Conversation *usecase.ConversationUsecase
	Translator   *usecase.TranslatorUsecase
}
