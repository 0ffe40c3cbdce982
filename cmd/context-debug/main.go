// context-debug prints the context block and selection stats the bot
// would produce for a prompt against a stored conversation. Useful for
// tuning the selection parameters offline.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/peximo/slack-llm-translate/internal/biz/domain"
	"github.com/peximo/slack-llm-translate/internal/biz/usecase"
	"github.com/peximo/slack-llm-translate/internal/conf"
	"github.com/peximo/slack-llm-translate/internal/data"
)

func main() {
	var (
		userID    = flag.String("user", "", "Slack user ID")
		channelID = flag.String("channel", "", "Slack channel ID")
		prompt    = flag.String("prompt", "", "prompt to select context for")
	)
	flag.Parse()

	if *userID == "" || *channelID == "" || *prompt == "" {
		log.Fatal("usage: context-debug -user U123 -channel C456 -prompt \"...\"")
	}

	_ = godotenv.Load()
	cfg := conf.LoadFromEnv()

	store, err := data.NewConversationRepo(cfg.Store.DBPath)
	if err != nil {
		log.Fatalf("Open store: %v", err)
	}
	defer store.Close()

	key := domain.ConversationKey{UserID: *userID, ChannelID: *channelID}
	history, err := store.Recent(context.Background(), key, cfg.Store.HistoryLimit)
	if err != nil {
		log.Fatalf("Load history: %v", err)
	}

	builder := usecase.NewContextBuilder(cfg.ToContextConfig())

	fmt.Printf("Keywords: %v\n", builder.ExtractKeywords(*prompt))
	fmt.Printf("Stats:    %s\n\n", builder.Stats(history, *prompt))
	fmt.Print(builder.BuildContext(history, *prompt))
}
