package domain

import "time"

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Label returns the display name used in formatted context blocks.
func (r Role) Label() string {
	if r == RoleAssistant {
		return "Assistant"
	}
	return "User"
}

// Message represents one conversation turn. Immutable once created.
type Message struct {
	Role       Role
	Content    string
	CreateTime time.Time
}
