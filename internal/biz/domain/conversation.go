package domain

// ConversationKey identifies a distinct message history.
// Each (user, channel) pair gets its own linear conversation log.
type ConversationKey struct {
	UserID    string
	ChannelID string
}
