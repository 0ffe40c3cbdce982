package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/peximo/slack-llm-translate/internal/biz/usecase"
	"github.com/peximo/slack-llm-translate/internal/infra/llm"
)

// Config represents application configuration
type Config struct {
	// Slack configuration
	Slack SlackConfig

	// LLM backend configuration
	LLM LLMConfig

	// Conversation store configuration
	Store StoreConfig

	// Context selection configuration
	Context ContextConfigValues

	// Translation configuration
	Translate TranslateConfig

	// Debug mode
	Debug bool
}

// SlackConfig contains Slack configuration
type SlackConfig struct {
	SigningSecret    string
	AskCommand       string
	TranslateCommand string
	Port             int
}

// LLMConfig contains LLM backend configuration
type LLMConfig struct {
	Provider       string
	APIKey         string
	Model          string
	BaseURL        string
	TimeoutSeconds int
}

// StoreConfig contains conversation store configuration
type StoreConfig struct {
	DBPath        string
	HistoryLimit  int
	RetentionDays int // 0 disables retention cleanup
}

// ContextConfigValues contains context selection configuration values
type ContextConfigValues struct {
	MaxContextChars    int
	MinRecentMessages  int
	MaxRelevantOlder   int
	MinKeywordLength   int
	RelevanceThreshold float64
}

// TranslateConfig contains translation configuration
type TranslateConfig struct {
	DefaultLang string
	DefaultTone string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Conversation DB path
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		homeDir, _ := os.UserHomeDir()
		dbPath = filepath.Join(homeDir, ".slack-llm-translate", "conversations.db")
	}

	ctxDefaults := usecase.DefaultContextConfig

	return &Config{
		Slack: SlackConfig{
			SigningSecret:    os.Getenv("SLACK_SIGNING_SECRET"),
			AskCommand:       envString("SLACK_ASK_COMMAND", "/ask"),
			TranslateCommand: envString("SLACK_TRANSLATE_COMMAND", "/translate"),
			Port:             envInt("PORT", 8080),
		},
		LLM: LLMConfig{
			Provider:       envString("LLM_PROVIDER", llm.ProviderOpenAI),
			APIKey:         os.Getenv("OPENAI_API_KEY"),
			Model:          os.Getenv("LLM_MODEL"),
			BaseURL:        os.Getenv("LLM_BASE_URL"),
			TimeoutSeconds: envInt("LLM_TIMEOUT_SECONDS", 60),
		},
		Store: StoreConfig{
			DBPath:        dbPath,
			HistoryLimit:  envInt("HISTORY_LIMIT", 50),
			RetentionDays: envInt("RETENTION_DAYS", 90),
		},
		Context: ContextConfigValues{
			MaxContextChars:    envInt("MAX_CONTEXT_CHARS", ctxDefaults.MaxContextChars),
			MinRecentMessages:  envInt("MIN_RECENT_MESSAGES", ctxDefaults.MinRecentMessages),
			MaxRelevantOlder:   envInt("MAX_RELEVANT_OLDER", ctxDefaults.MaxRelevantOlder),
			MinKeywordLength:   envInt("MIN_KEYWORD_LENGTH", ctxDefaults.MinKeywordLength),
			RelevanceThreshold: envFloat("RELEVANCE_THRESHOLD", ctxDefaults.RelevanceThreshold),
		},
		Translate: TranslateConfig{
			DefaultLang: envString("TRANSLATE_DEFAULT_LANG", "en"),
			DefaultTone: envString("TRANSLATE_DEFAULT_TONE", "neutral"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}
}

func envString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

// ToContextConfig converts to the context selection configuration
func (c *Config) ToContextConfig() usecase.ContextConfig {
	return usecase.ContextConfig{
		MaxContextChars:    c.Context.MaxContextChars,
		MinRecentMessages:  c.Context.MinRecentMessages,
		MaxRelevantOlder:   c.Context.MaxRelevantOlder,
		MinKeywordLength:   c.Context.MinKeywordLength,
		RelevanceThreshold: c.Context.RelevanceThreshold,
	}
}

// ToLLMConfig converts to the LLM client configuration
func (c *Config) ToLLMConfig() llm.Config {
	return llm.Config{
		Provider: c.LLM.Provider,
		APIKey:   c.LLM.APIKey,
		Model:    c.LLM.Model,
		BaseURL:  c.LLM.BaseURL,
		Timeout:  time.Duration(c.LLM.TimeoutSeconds) * time.Second,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Slack.SigningSecret == "" {
		return &ConfigError{Field: "SLACK_SIGNING_SECRET", Message: "required"}
	}
	if c.LLM.Provider == llm.ProviderOpenAI && c.LLM.APIKey == "" {
		return &ConfigError{Field: "OPENAI_API_KEY", Message: "required when LLM_PROVIDER is openai"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
