package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"

	// Default local endpoint: Ollama's OpenAI-compatible API.
	localBaseURL = "http://localhost:11434/v1"

	defaultOpenAIModel = "gpt-4o-mini"
	defaultLocalModel  = "llama3.1"
)

// Config selects and tunes the backend.
type Config struct {
	Provider string // "openai" or "local"
	APIKey   string
	Model    string
	BaseURL  string // overrides the provider default when set
	Timeout  time.Duration
}

// Client talks to any OpenAI-compatible chat completion endpoint,
// cloud or local.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewClient creates a new LLM client
func NewClient(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		if cfg.Provider == ProviderLocal {
			model = defaultLocalModel
		} else {
			model = defaultOpenAIModel
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	} else if cfg.Provider == ProviderLocal {
		config.BaseURL = localBaseURL
	}

	return &Client{
		client:  openai.NewClientWithConfig(config),
		model:   model,
		timeout: timeout,
	}
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// Chat sends a message and returns the response
func (c *Client) Chat(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	return resp.Choices[0].Message.Content, nil
}
