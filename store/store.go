// Package store owns Session and Message entities. Storage is in-memory
// and per-instance: construct one SessionStore per orchestrator (or per
// test) instead of sharing ambient global state.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deepneed/chatcore/domain"
)

// DefaultTitle is used when a session is created without one.
const DefaultTitle = "New requirement analysis"

// SessionStore holds sessions and their messages. Message history is
// append-only except for the one controlled mutation in PatchMessage.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	messages map[string][]domain.Message
}

// New creates an empty store.
func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
		messages: make(map[string][]domain.Message),
	}
}

// CreateSession creates a new active session.
func (s *SessionStore) CreateSession(title, initialIdea string) domain.Session {
	if title == "" {
		title = DefaultTitle
	}
	now := time.Now()
	session := domain.Session{
		SessionID:   "sess_" + uuid.New().String()[:8],
		Title:       title,
		InitialIdea: initialIdea,
		Status:      domain.SessionStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.sessions[session.SessionID] = session
	s.messages[session.SessionID] = nil
	s.mu.Unlock()

	return session
}

// GetSession retrieves a session by id.
func (s *SessionStore) GetSession(sessionID string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.Session{}, &domain.UnknownSessionError{SessionID: sessionID}
	}
	return session, nil
}

// ListSessions returns all sessions, newest first.
func (s *SessionStore) ListSessions() []domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].SessionID < out[j].SessionID
	})
	return out
}

// AppendMessage appends a message to a session's history. A message's
// position in the sequence is fixed here; later enhancement only ever
// changes content in place.
func (s *SessionStore) AppendMessage(sessionID string, role domain.Role, content string, state domain.MessageState) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.Message{}, &domain.UnknownSessionError{SessionID: sessionID}
	}

	now := time.Now()
	msg := domain.Message{
		MessageID: "msg_" + uuid.New().String()[:8],
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		State:     state,
		CreatedAt: now,
	}
	s.messages[sessionID] = append(s.messages[sessionID], msg)

	session.UpdatedAt = now
	s.sessions[sessionID] = session

	return msg, nil
}

// PatchMessage upgrades a placeholder message to final content. It reports
// whether the patch was applied: patching an already-final message is an
// idempotent no-op, and a missing session or message fails softly so a
// late enhancement racing a deleteSession never errors.
func (s *SessionStore) PatchMessage(sessionID, messageID, newContent string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	msgs := s.messages[sessionID]
	for i := range msgs {
		if msgs[i].MessageID != messageID {
			continue
		}
		if msgs[i].State != domain.MessageStatePlaceholder {
			return false
		}
		msgs[i].Content = newContent
		msgs[i].State = domain.MessageStateFinal
		msgs[i].Degraded = false

		session.UpdatedAt = time.Now()
		s.sessions[sessionID] = session
		return true
	}
	return false
}

// MarkMessageDegraded flags a placeholder whose enhancement failed
// entirely. The placeholder text stays as the final visible content.
func (s *SessionStore) MarkMessageDegraded(sessionID, messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.messages[sessionID]
	for i := range msgs {
		if msgs[i].MessageID == messageID && msgs[i].State == domain.MessageStatePlaceholder {
			msgs[i].Degraded = true
			return
		}
	}
}

// ListMessages returns a session's messages in append order.
func (s *SessionStore) ListMessages(sessionID string) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return nil, &domain.UnknownSessionError{SessionID: sessionID}
	}
	msgs := s.messages[sessionID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// DeleteSession removes a session and its messages. In-flight enhancement
// tasks for the session will find their patch target gone and abandon it.
func (s *SessionStore) DeleteSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return &domain.UnknownSessionError{SessionID: sessionID}
	}
	delete(s.sessions, sessionID)
	delete(s.messages, sessionID)
	return nil
}
