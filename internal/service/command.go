package service

import (
	"context"
	"fmt"
	"time"

	"github.com/slack-go/slack"

	"github.com/peximo/slack-llm-translate/internal/biz/usecase"
)

// CommandKind identifies which slash command triggered a request.
type CommandKind string

const (
	CommandAsk       CommandKind = "ask"
	CommandTranslate CommandKind = "translate"
)

const (
	responseTypeInChannel = "in_channel"
	responseTypeEphemeral = "ephemeral"
)

// handleTimeout bounds one command end to end, LLM call included.
const handleTimeout = 3 * time.Minute

// WebhookPoster posts a delayed response to a Slack response_url.
type WebhookPoster func(url string, msg *slack.WebhookMessage) error

// CommandRequest represents one accepted slash command.
type CommandRequest struct {
	RequestID   string
	Kind        CommandKind
	UserID      string
	ChannelID   string
	Text        string
	ResponseURL string
}

// CommandService routes accepted slash commands to the usecases and
// delivers the result through the command's response_url. It runs after
// the HTTP handler has already acked, so Slack's 3-second deadline does
// not apply here.
type CommandService struct {
	convUC  *usecase.ConversationUsecase
	transUC *usecase.TranslatorUsecase
	post    WebhookPoster
}

// NewCommandService creates a new command service
func NewCommandService(convUC *usecase.ConversationUsecase, transUC *usecase.TranslatorUsecase) *CommandService {
	return &CommandService{
		convUC:  convUC,
		transUC: transUC,
		post:    slack.PostWebhook,
	}
}

// Handle executes one command and posts the outcome to Slack.
func (s *CommandService) Handle(ctx context.Context, req *CommandRequest) {
	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	var text string
	var err error
	switch req.Kind {
	case CommandAsk:
		var resp *usecase.AskResponse
		resp, err = s.convUC.Ask(ctx, &usecase.AskRequest{
			UserID:    req.UserID,
			ChannelID: req.ChannelID,
			Text:      req.Text,
		})
		if err == nil {
			text = resp.Reply
		}
	case CommandTranslate:
		text, err = s.transUC.Translate(ctx, req.Text)
	default:
		err = fmt.Errorf("unknown command kind: %s", req.Kind)
	}

	if err != nil {
		fmt.Printf("[CmdSvc] %s: %s failed: %v\n", req.RequestID, req.Kind, err)
		s.respond(req, &slack.WebhookMessage{
			ResponseType: responseTypeEphemeral,
			Text:         "Sorry, I couldn't process that right now. Please try again.",
		})
		return
	}

	s.respond(req, &slack.WebhookMessage{
		ResponseType: responseTypeInChannel,
		Text:         text,
	})
}

func (s *CommandService) respond(req *CommandRequest, msg *slack.WebhookMessage) {
	if req.ResponseURL == "" {
		return
	}
	if err := s.post(req.ResponseURL, msg); err != nil {
		fmt.Printf("[CmdSvc] %s: failed to post response: %v\n", req.RequestID, err)
	}
}
