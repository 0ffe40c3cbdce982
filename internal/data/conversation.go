package data

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/peximo/slack-llm-translate/internal/biz/domain"
	"github.com/peximo/slack-llm-translate/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// conversationRepo implements the conversation store
type conversationRepo struct {
	db *sql.DB
}

// NewConversationRepo creates a sqlite-backed conversation store
func NewConversationRepo(dbPath string) (repo.ConversationRepo, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create table. Timestamps are epoch milliseconds.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			channel_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	// Create index
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_messages_conversation
		ON messages(user_id, channel_id, created_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &conversationRepo{db: db}, nil
}

// Append stores one conversation turn
func (r *conversationRepo) Append(ctx context.Context, key domain.ConversationKey, msg domain.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (user_id, channel_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		key.UserID,
		key.ChannelID,
		string(msg.Role),
		msg.Content,
		msg.CreateTime.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// Recent returns the most recent limit messages, oldest first
func (r *conversationRepo) Recent(ctx context.Context, key domain.ConversationKey, limit int) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT role, content, created_at
		FROM messages
		WHERE user_id = ? AND channel_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, key.UserID, key.ChannelID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var role string
		var createdAt int64
		if err := rows.Scan(&role, &msg.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Role = domain.Role(role)
		msg.CreateTime = time.UnixMilli(createdAt)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	// Query returns newest first; callers expect oldest first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// CleanupBefore deletes messages older than the given time
func (r *conversationRepo) CleanupBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM messages WHERE created_at < ?
	`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup messages: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the database connection
func (r *conversationRepo) Close() error {
	return r.db.Close()
}
