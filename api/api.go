// Package api exposes the session/message surface consumed by the UI
// layer, both as an in-process facade and as HTTP handlers.
package api

import (
	"github.com/deepneed/chatcore/domain"
	"github.com/deepneed/chatcore/enhance"
	"github.com/deepneed/chatcore/quickreply"
	"github.com/deepneed/chatcore/store"
)

// systemPrompt frames every provider conversation. The session's initial
// idea is appended when present.
const systemPrompt = "You are a seasoned product strategist and startup mentor. " +
	"Ask probing, progressive questions that help the user sharpen their " +
	"product idea: user value, market positioning, business model, technical " +
	"path and growth. Be concrete, challenge assumptions, and suggest " +
	"practical frameworks."

// pendingReply is the placeholder content used when quick replies are
// disabled by configuration.
const pendingReply = "Working on a thorough answer for you..."

// SessionAPI is the single entry point for the UI layer. It never blocks
// on network I/O: provider traffic runs in the enhancement worker.
type SessionAPI struct {
	store        *store.SessionStore
	quick        *quickreply.Selector
	worker       *enhance.Worker
	quickReplies bool
}

// New wires the facade.
func New(st *store.SessionStore, quick *quickreply.Selector, worker *enhance.Worker, quickReplies bool) *SessionAPI {
	return &SessionAPI{
		store:        st,
		quick:        quick,
		worker:       worker,
		quickReplies: quickReplies,
	}
}

// CreateSession creates a new chat session.
func (a *SessionAPI) CreateSession(title, initialIdea string) domain.Session {
	return a.store.CreateSession(title, initialIdea)
}

// ListSessions returns all sessions, newest first.
func (a *SessionAPI) ListSessions() []domain.Session {
	return a.store.ListSessions()
}

// GetSession retrieves one session.
func (a *SessionAPI) GetSession(sessionID string) (domain.Session, error) {
	return a.store.GetSession(sessionID)
}

// ListMessages returns a session's messages in append order.
func (a *SessionAPI) ListMessages(sessionID string) ([]domain.Message, error) {
	return a.store.ListMessages(sessionID)
}

// DeleteSession removes a session and its messages. Pending enhancement
// tasks for it abandon their patch silently.
func (a *SessionAPI) DeleteSession(sessionID string) error {
	return a.store.DeleteSession(sessionID)
}

// SendMessage appends the user message, appends an immediate placeholder
// assistant reply, schedules its background upgrade, and returns the
// placeholder. The synchronous path performs no network I/O.
func (a *SessionAPI) SendMessage(sessionID, content string) (domain.Message, error) {
	session, err := a.store.GetSession(sessionID)
	if err != nil {
		return domain.Message{}, err
	}

	if _, err := a.store.AppendMessage(sessionID, domain.RoleUser, content, domain.MessageStateFinal); err != nil {
		return domain.Message{}, err
	}

	payload := a.buildPayload(session)

	reply := pendingReply
	if a.quickReplies {
		reply = a.quick.Select(content)
	}

	placeholder, err := a.store.AppendMessage(sessionID, domain.RoleAssistant, reply, domain.MessageStatePlaceholder)
	if err != nil {
		return domain.Message{}, err
	}

	a.worker.Schedule(sessionID, placeholder.MessageID, content, payload)

	return placeholder, nil
}

// buildPayload maps the conversation so far (ending with the just-appended
// user message) onto the provider wire shape, framed by the system prompt.
func (a *SessionAPI) buildPayload(session domain.Session) []domain.ChatMessage {
	history, err := a.store.ListMessages(session.SessionID)
	if err != nil {
		history = nil
	}

	prompt := systemPrompt
	if session.InitialIdea != "" {
		prompt += "\n\nInitial project idea: " + session.InitialIdea
	}

	payload := make([]domain.ChatMessage, 0, len(history)+1)
	payload = append(payload, domain.ChatMessage{Role: string(domain.RoleSystem), Content: prompt})
	for _, m := range history {
		payload = append(payload, domain.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	return payload
}
