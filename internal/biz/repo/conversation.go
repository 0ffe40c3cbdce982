package repo

import (
	"context"
	"time"

	"github.com/peximo/slack-llm-translate/internal/biz/domain"
)

// ConversationRepo is the conversation store interface.
// Implementations persist turns per (user, channel) key and return
// history snapshots oldest-first.
type ConversationRepo interface {
	// Append stores one conversation turn.
	Append(ctx context.Context, key domain.ConversationKey, msg domain.Message) error

	// Recent returns the most recent limit messages for the key,
	// ordered oldest to newest.
	Recent(ctx context.Context, key domain.ConversationKey, limit int) ([]domain.Message, error)

	// CleanupBefore deletes messages older than the given time.
	// Returns the number of rows removed.
	CleanupBefore(ctx context.Context, before time.Time) (int64, error)

	// Close releases the underlying storage.
	Close() error
}
