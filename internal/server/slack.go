package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/slack-go/slack"

	"github.com/peximo/slack-llm-translate/internal/conf"
	"github.com/peximo/slack-llm-translate/internal/service"
)

// SlackServer receives slash commands over HTTP, verifies the Slack
// signature, acks within Slack's 3-second window, and hands the work to
// the command service asynchronously.
type SlackServer struct {
	cmdSvc   *service.CommandService
	cfg      conf.SlackConfig
	server   *http.Server
	inflight sync.WaitGroup
}

// NewSlackServer creates a new Slack server
func NewSlackServer(cmdSvc *service.CommandService, cfg conf.SlackConfig) *SlackServer {
	return &SlackServer{cmdSvc: cmdSvc, cfg: cfg}
}

// Start starts the HTTP server
func (s *SlackServer) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/slack/command", s.handleCommand)

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: mux,
	}

	fmt.Printf("[Server] Listening on port %d\n", s.cfg.Port)
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server and waits for in-flight commands, so
// commands acked before shutdown still post their replies.
func (s *SlackServer) Stop() error {
	var err error
	if s.server != nil {
		err = s.server.Shutdown(context.Background())
	}
	s.inflight.Wait()
	return err
}

func (s *SlackServer) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	verifier, err := slack.NewSecretsVerifier(r.Header, s.cfg.SigningSecret)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	r.Body = io.NopCloser(io.TeeReader(r.Body, &verifier))

	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if err := verifier.Ensure(); err != nil {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	reqID := uuid.NewString()[:8]

	var kind service.CommandKind
	switch cmd.Command {
	case s.cfg.AskCommand:
		kind = service.CommandAsk
	case s.cfg.TranslateCommand:
		kind = service.CommandTranslate
	default:
		fmt.Printf("[Server] %s: unknown command %q\n", reqID, cmd.Command)
		s.writeAck(w, fmt.Sprintf("Unknown command %s", cmd.Command))
		return
	}

	if strings.TrimSpace(cmd.Text) == "" {
		s.writeAck(w, fmt.Sprintf("Usage: %s <text>", cmd.Command))
		return
	}

	fmt.Printf("[Server] %s: %s from user=%s channel=%s (%d chars)\n",
		reqID, cmd.Command, cmd.UserID, cmd.ChannelID, len(cmd.Text))

	// The final answer arrives via response_url; the handler itself must
	// return before Slack's deadline.
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.cmdSvc.Handle(context.Background(), &service.CommandRequest{
			RequestID:   reqID,
			Kind:        kind,
			UserID:      cmd.UserID,
			ChannelID:   cmd.ChannelID,
			Text:        cmd.Text,
			ResponseURL: cmd.ResponseURL,
		})
	}()

	s.writeAck(w, "Working on it...")
}

func (s *SlackServer) writeAck(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"response_type": "ephemeral",
		"text":          text,
	})
}
