package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/peximo/slack-llm-translate/internal/biz/domain"
	"github.com/peximo/slack-llm-translate/internal/biz/repo"
)

const askSystemPrompt = `You are a helpful assistant running as a Slack bot. Your output is sent directly to the Slack channel.

Rules:
1. Output the answer directly, without meta-descriptions (no "Here's a response:")
2. A "[Previous conversation - for reference]" block may precede the current message; it is earlier conversation provided for continuity. Lines marked ">" are the most recent turns.
3. Don't ask for information that's already in that block.
4. Prefer concise responses; Slack messages should stay readable.`

// ConversationUsecase handles the ask flow: load a history snapshot, build
// a context block, call the model, persist both turns.
type ConversationUsecase struct {
	convRepo     repo.ConversationRepo
	llmRepo      repo.LLMRepo
	builder      *ContextBuilder
	historyLimit int
	debug        bool
}

// NewConversationUsecase creates a new conversation usecase
func NewConversationUsecase(
	convRepo repo.ConversationRepo,
	llmRepo repo.LLMRepo,
	builder *ContextBuilder,
	historyLimit int,
	debug bool,
) *ConversationUsecase {
	return &ConversationUsecase{
		convRepo:     convRepo,
		llmRepo:      llmRepo,
		builder:      builder,
		historyLimit: historyLimit,
		debug:        debug,
	}
}

// AskRequest represents one slash-command prompt.
type AskRequest struct {
	UserID    string
	ChannelID string
	Text      string
}

// AskResponse carries the model reply plus selection diagnostics.
type AskResponse struct {
	Reply string
	Stats ContextStats
}

// Ask answers a prompt with conversational context (core method).
func (uc *ConversationUsecase) Ask(ctx context.Context, req *AskRequest) (*AskResponse, error) {
	key := domain.ConversationKey{UserID: req.UserID, ChannelID: req.ChannelID}

	// 1. Load history snapshot. A store failure degrades to answering
	// without context; the LLM call is the critical path.
	history, err := uc.convRepo.Recent(ctx, key, uc.historyLimit)
	if err != nil {
		fmt.Printf("[ConvUC] Warning: load history failed, continuing without context: %v\n", err)
		history = nil
	}

	// 2. Build context block and selection stats (best-effort, see
	// contextWithStats).
	contextBlock, stats := uc.contextWithStats(history, req.Text)
	fmt.Printf("[ConvUC] Context: %s\n", stats)

	// 3. Compose prompt.
	prompt := req.Text
	if contextBlock != "" {
		prompt = contextBlock + "\n" + req.Text
	}
	if uc.debug {
		fmt.Printf("[ConvUC] ========== FULL PROMPT START ==========\n%s\n[ConvUC] ========== FULL PROMPT END ==========\n", prompt)
	}

	// 4. Send to model.
	reply, err := uc.llmRepo.Chat(ctx, askSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	// 5. Persist both turns. Persistence failures don't invalidate the
	// reply; the user already paid for the model call.
	userMsg := domain.Message{Role: domain.RoleUser, Content: req.Text, CreateTime: time.Now()}
	if err := uc.convRepo.Append(ctx, key, userMsg); err != nil {
		fmt.Printf("[ConvUC] Warning: failed to store user turn: %v\n", err)
	}
	assistantMsg := domain.Message{Role: domain.RoleAssistant, Content: reply, CreateTime: time.Now()}
	if err := uc.convRepo.Append(ctx, key, assistantMsg); err != nil {
		fmt.Printf("[ConvUC] Warning: failed to store assistant turn: %v\n", err)
	}

	return &AskResponse{Reply: reply, Stats: stats}, nil
}

// contextWithStats wraps context building and its stats so a failure
// there can never take down the request; the prompt is simply sent
// without context.
func (uc *ConversationUsecase) contextWithStats(history []domain.Message, prompt string) (block string, stats ContextStats) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("[ConvUC] Warning: context build panicked, continuing without context: %v\n", r)
			block = ""
			stats = ContextStats{HistorySize: len(history)}
		}
	}()
	block = uc.builder.BuildContext(history, prompt)
	stats = uc.builder.Stats(history, prompt)
	return block, stats
}
