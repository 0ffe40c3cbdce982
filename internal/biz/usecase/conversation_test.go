package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/peximo/slack-llm-translate/internal/biz/domain"
)

type mockConversationRepo struct {
	history   []domain.Message
	appended  []domain.Message
	recentErr error
	appendErr error
}

func (m *mockConversationRepo) Append(ctx context.Context, key domain.ConversationKey, msg domain.Message) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, msg)
	return nil
}

func (m *mockConversationRepo) Recent(ctx context.Context, key domain.ConversationKey, limit int) ([]domain.Message, error) {
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	if limit > len(m.history) {
		limit = len(m.history)
	}
	return m.history[len(m.history)-limit:], nil
}

func (m *mockConversationRepo) CleanupBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (m *mockConversationRepo) Close() error {
	return nil
}

type mockLLMRepo struct {
	reply      string
	err        error
	lastSystem string
	lastUser   string
}

func (m *mockLLMRepo) Chat(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	m.lastSystem = systemPrompt
	m.lastUser = userMessage
	return m.reply, m.err
}

func newTestConversationUsecase(convRepo *mockConversationRepo, llmRepo *mockLLMRepo) *ConversationUsecase {
	builder := NewContextBuilder(DefaultContextConfig)
	return NewConversationUsecase(convRepo, llmRepo, builder, 50, false)
}

func TestAsk_StoresBothTurns(t *testing.T) {
	convRepo := &mockConversationRepo{}
	llmRepo := &mockLLMRepo{reply: "42"}
	uc := newTestConversationUsecase(convRepo, llmRepo)

	resp, err := uc.Ask(context.Background(), &AskRequest{
		UserID:    "U1",
		ChannelID: "C1",
		Text:      "what is the answer",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Reply != "42" {
		t.Errorf("Expected reply '42', got %q", resp.Reply)
	}

	if len(convRepo.appended) != 2 {
		t.Fatalf("Expected 2 stored turns, got %d", len(convRepo.appended))
	}
	if convRepo.appended[0].Role != domain.RoleUser || convRepo.appended[0].Content != "what is the answer" {
		t.Errorf("Expected user turn first, got %+v", convRepo.appended[0])
	}
	if convRepo.appended[1].Role != domain.RoleAssistant || convRepo.appended[1].Content != "42" {
		t.Errorf("Expected assistant turn second, got %+v", convRepo.appended[1])
	}
}

func TestAsk_IncludesContextBlock(t *testing.T) {
	now := time.Now()
	convRepo := &mockConversationRepo{
		history: []domain.Message{
			{Role: domain.RoleUser, Content: "my favorite pizza dough recipe", CreateTime: now.Add(-10 * time.Minute)},
			{Role: domain.RoleAssistant, Content: "noted, honey and flour", CreateTime: now.Add(-9 * time.Minute)},
		},
	}
	llmRepo := &mockLLMRepo{reply: "sure"}
	uc := newTestConversationUsecase(convRepo, llmRepo)

	_, err := uc.Ask(context.Background(), &AskRequest{
		UserID:    "U1",
		ChannelID: "C1",
		Text:      "remind me about that pizza dough",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(llmRepo.lastUser, contextHeader) {
		t.Error("Expected prompt to contain the context header")
	}
	if !strings.Contains(llmRepo.lastUser, "my favorite pizza dough recipe") {
		t.Error("Expected prompt to contain history content")
	}
	if !strings.HasSuffix(llmRepo.lastUser, "remind me about that pizza dough") {
		t.Errorf("Expected prompt to end with the current text, got %q", llmRepo.lastUser)
	}
}

func TestAsk_EmptyHistoryNoContext(t *testing.T) {
	convRepo := &mockConversationRepo{}
	llmRepo := &mockLLMRepo{reply: "hi"}
	uc := newTestConversationUsecase(convRepo, llmRepo)

	_, err := uc.Ask(context.Background(), &AskRequest{UserID: "U1", ChannelID: "C1", Text: "hello there"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if llmRepo.lastUser != "hello there" {
		t.Errorf("Expected bare prompt, got %q", llmRepo.lastUser)
	}
}

func TestAsk_StoreFailureDegradesToNoContext(t *testing.T) {
	convRepo := &mockConversationRepo{recentErr: errors.New("db locked")}
	llmRepo := &mockLLMRepo{reply: "still works"}
	uc := newTestConversationUsecase(convRepo, llmRepo)

	resp, err := uc.Ask(context.Background(), &AskRequest{UserID: "U1", ChannelID: "C1", Text: "anything"})
	if err != nil {
		t.Fatalf("Expected degraded success, got error: %v", err)
	}
	if resp.Reply != "still works" {
		t.Errorf("Expected reply, got %q", resp.Reply)
	}
	if llmRepo.lastUser != "anything" {
		t.Errorf("Expected bare prompt on store failure, got %q", llmRepo.lastUser)
	}
}

func TestAsk_LLMFailure(t *testing.T) {
	convRepo := &mockConversationRepo{}
	llmRepo := &mockLLMRepo{err: errors.New("backend down")}
	uc := newTestConversationUsecase(convRepo, llmRepo)

	_, err := uc.Ask(context.Background(), &AskRequest{UserID: "U1", ChannelID: "C1", Text: "hello"})
	if err == nil {
		t.Fatal("Expected error when the backend fails")
	}
	if len(convRepo.appended) != 0 {
		t.Errorf("Expected no turns stored on failure, got %d", len(convRepo.appended))
	}
}

func TestAsk_ContextPipelineFailureDegrades(t *testing.T) {
	now := time.Now()
	convRepo := &mockConversationRepo{
		history: []domain.Message{
			{Role: domain.RoleUser, Content: "earlier note", CreateTime: now.Add(-time.Minute)},
		},
	}
	llmRepo := &mockLLMRepo{reply: "still works"}
	// A nil builder makes every pipeline call panic; the request must
	// survive on the bare prompt.
	uc := NewConversationUsecase(convRepo, llmRepo, nil, 50, false)

	resp, err := uc.Ask(context.Background(), &AskRequest{UserID: "U1", ChannelID: "C1", Text: "hello"})
	if err != nil {
		t.Fatalf("Expected degraded success, got error: %v", err)
	}
	if resp.Reply != "still works" {
		t.Errorf("Expected reply, got %q", resp.Reply)
	}
	if llmRepo.lastUser != "hello" {
		t.Errorf("Expected bare prompt after pipeline failure, got %q", llmRepo.lastUser)
	}
	if resp.Stats.HistorySize != 1 || resp.Stats.SelectedCount != 0 {
		t.Errorf("Expected fallback stats, got %+v", resp.Stats)
	}
}

func TestAsk_StatsReported(t *testing.T) {
	now := time.Now()
	convRepo := &mockConversationRepo{
		history: []domain.Message{
			{Role: domain.RoleUser, Content: "hello", CreateTime: now.Add(-time.Minute)},
		},
	}
	llmRepo := &mockLLMRepo{reply: "hi"}
	uc := newTestConversationUsecase(convRepo, llmRepo)

	resp, err := uc.Ask(context.Background(), &AskRequest{UserID: "U1", ChannelID: "C1", Text: "hello again"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Stats.HistorySize != 1 {
		t.Errorf("Expected history size 1, got %d", resp.Stats.HistorySize)
	}
	if resp.Stats.BudgetedCount != 1 {
		t.Errorf("Expected 1 budgeted message, got %d", resp.Stats.BudgetedCount)
	}
}
