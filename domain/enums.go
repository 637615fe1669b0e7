package domain

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// MessageState tracks whether an assistant message is still awaiting its
// background upgrade.
type MessageState string

const (
	// MessageStatePlaceholder is the immediately-returned heuristic reply.
	MessageStatePlaceholder MessageState = "placeholder"
	// MessageStateFinal is a reply that has been upgraded (or was final
	// from the start, as user messages are).
	MessageStateFinal MessageState = "final"
)

// SessionStatus represents the lifecycle state of a session.
type SessionStatus string

const (
	SessionStatusActive   SessionStatus = "active"
	SessionStatusArchived SessionStatus = "archived"
)
