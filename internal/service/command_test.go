package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slack-go/slack"

	"github.com/peximo/slack-llm-translate/internal/biz/domain"
	"github.com/peximo/slack-llm-translate/internal/biz/usecase"
)

type mockConversationRepo struct{}

func (m *mockConversationRepo) Append(ctx context.Context, key domain.ConversationKey, msg domain.Message) error {
	return nil
}

func (m *mockConversationRepo) Recent(ctx context.Context, key domain.ConversationKey, limit int) ([]domain.Message, error) {
	return nil, nil
}

func (m *mockConversationRepo) CleanupBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (m *mockConversationRepo) Close() error {
	return nil
}

type mockLLMRepo struct {
	reply string
	err   error
}

func (m *mockLLMRepo) Chat(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	return m.reply, m.err
}

func newTestService(llmRepo *mockLLMRepo) (*CommandService, *[]*slack.WebhookMessage) {
	builder := usecase.NewContextBuilder(usecase.DefaultContextConfig)
	convUC := usecase.NewConversationUsecase(&mockConversationRepo{}, llmRepo, builder, 50, false)
	transUC := usecase.NewTranslatorUsecase(llmRepo, "en", "neutral")

	var posted []*slack.WebhookMessage
	svc := NewCommandService(convUC, transUC)
	svc.post = func(url string, msg *slack.WebhookMessage) error {
		posted = append(posted, msg)
		return nil
	}
	return svc, &posted
}

func TestHandle_AskPostsReply(t *testing.T) {
	svc, posted := newTestService(&mockLLMRepo{reply: "the answer"})

	svc.Handle(context.Background(), &CommandRequest{
		RequestID:   "req1",
		Kind:        CommandAsk,
		UserID:      "U1",
		ChannelID:   "C1",
		Text:        "what is the answer",
		ResponseURL: "https://hooks.slack.com/commands/T1/123",
	})

	if len(*posted) != 1 {
		t.Fatalf("Expected 1 posted message, got %d", len(*posted))
	}
	msg := (*posted)[0]
	if msg.ResponseType != responseTypeInChannel {
		t.Errorf("Expected in_channel response, got %q", msg.ResponseType)
	}
	if msg.Text != "the answer" {
		t.Errorf("Expected reply text, got %q", msg.Text)
	}
}

func TestHandle_TranslatePostsReply(t *testing.T) {
	svc, posted := newTestService(&mockLLMRepo{reply: "bonjour"})

	svc.Handle(context.Background(), &CommandRequest{
		RequestID:   "req2",
		Kind:        CommandTranslate,
		UserID:      "U1",
		ChannelID:   "C1",
		Text:        "fr hello there",
		ResponseURL: "https://hooks.slack.com/commands/T1/456",
	})

	if len(*posted) != 1 {
		t.Fatalf("Expected 1 posted message, got %d", len(*posted))
	}
	if (*posted)[0].Text != "bonjour" {
		t.Errorf("Expected translation, got %q", (*posted)[0].Text)
	}
}

func TestHandle_BackendErrorPostsApology(t *testing.T) {
	svc, posted := newTestService(&mockLLMRepo{err: errors.New("backend down")})

	svc.Handle(context.Background(), &CommandRequest{
		RequestID:   "req3",
		Kind:        CommandAsk,
		UserID:      "U1",
		ChannelID:   "C1",
		Text:        "hello",
		ResponseURL: "https://hooks.slack.com/commands/T1/789",
	})

	if len(*posted) != 1 {
		t.Fatalf("Expected 1 posted message, got %d", len(*posted))
	}
	msg := (*posted)[0]
	if msg.ResponseType != responseTypeEphemeral {
		t.Errorf("Expected ephemeral apology, got %q", msg.ResponseType)
	}
}

func TestHandle_NoResponseURL(t *testing.T) {
	svc, posted := newTestService(&mockLLMRepo{reply: "hi"})

	svc.Handle(context.Background(), &CommandRequest{
		RequestID: "req4",
		Kind:      CommandAsk,
		UserID:    "U1",
		ChannelID: "C1",
		Text:      "hello",
	})

	if len(*posted) != 0 {
		t.Errorf("Expected nothing posted without response_url, got %d", len(*posted))
	}
}
