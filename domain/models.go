// Package domain defines the core domain models for the chat orchestration core.
package domain

import (
	"time"
)

// Session represents a conversation session.
type Session struct {
	SessionID   string        `json:"session_id"`
	Title       string        `json:"title"`
	InitialIdea string        `json:"initial_idea,omitempty"`
	Status      SessionStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Message represents a single message in a session.
type Message struct {
	MessageID string       `json:"message_id"`
	SessionID string       `json:"session_id"`
	Role      Role         `json:"role"`
	Content   string       `json:"content"`
	State     MessageState `json:"state"`
	// Degraded marks a placeholder that will never be upgraded because
	// every provider failed.
	Degraded  bool      `json:"degraded,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProviderConfig describes one configured AI provider.
type ProviderConfig struct {
	ProviderID  string        `json:"provider_id"`
	DisplayName string        `json:"display_name"`
	Enabled     bool          `json:"enabled"`
	Priority    int           `json:"priority"` // 1 = highest
	Credential  string        `json:"-"`
	Endpoint    string        `json:"endpoint"`
	Model       string        `json:"model"`
	Timeout     time.Duration `json:"timeout_ms"`
	Description string        `json:"description,omitempty"`
}

// ChatMessage is one role/content pair of the conversation payload sent to
// a provider.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CallResult is the outcome of a successful provider call. It is transient
// and never persisted.
type CallResult struct {
	ProviderID string        `json:"provider_id"`
	Content    string        `json:"content"`
	Latency    time.Duration `json:"latency_ms"`
}

// CacheEntry is a stored high-quality answer addressed by a deterministic key.
type CacheEntry struct {
	Key       string    `json:"key"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
