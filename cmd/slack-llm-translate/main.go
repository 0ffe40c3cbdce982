package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/peximo/slack-llm-translate/internal/biz"
	"github.com/peximo/slack-llm-translate/internal/biz/usecase"
	"github.com/peximo/slack-llm-translate/internal/conf"
	"github.com/peximo/slack-llm-translate/internal/data"
	"github.com/peximo/slack-llm-translate/internal/infra/llm"
	"github.com/peximo/slack-llm-translate/internal/server"
	"github.com/peximo/slack-llm-translate/internal/service"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize LLM client
	llmClient := llm.NewClient(cfg.ToLLMConfig())
	fmt.Printf("[Main] LLM backend: %s (model %s)\n", cfg.LLM.Provider, llmClient.Model())

	// Initialize repository layer
	repos, err := data.NewRepositories(llmClient, cfg.Store.DBPath)
	if err != nil {
		log.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Conversation.Close()

	fmt.Printf("[Main] Conversation DB: %s\n", cfg.Store.DBPath)

	// Initialize usecase layer
	builder := usecase.NewContextBuilder(cfg.ToContextConfig())
	ucs := &biz.Usecases{
		Context:      builder,
		Conversation: usecase.NewConversationUsecase(repos.Conversation, repos.LLM, builder, cfg.Store.HistoryLimit, cfg.Debug),
		Translator:   usecase.NewTranslatorUsecase(repos.LLM, cfg.Translate.DefaultLang, cfg.Translate.DefaultTone),
	}

	// Initialize service layer
	cmdSvc := service.NewCommandService(ucs.Conversation, ucs.Translator)

	// Retention cleanup
	var retention *service.RetentionService
	if cfg.Store.RetentionDays > 0 {
		retention = service.NewRetentionService(repos.Conversation, time.Duration(cfg.Store.RetentionDays)*24*time.Hour)
		retention.Start(context.Background())
	} else {
		fmt.Println("[Main] Retention cleanup disabled")
	}

	// Initialize server
	srv := server.NewSlackServer(cmdSvc, cfg.Slack)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		srv.Stop()
		if retention != nil {
			retention.Stop()
		}
		repos.Conversation.Close()
		os.Exit(0)
	}()

	fmt.Println("Starting Slack LLM bridge...")
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
