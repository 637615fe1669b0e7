package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deepneed/chatcore/domain"
)

// CreateSessionRequest is the body of POST /api/chat/sessions.
type CreateSessionRequest struct {
	Title       string `json:"title"`
	InitialIdea string `json:"initial_idea"`
}

// SendMessageRequest is the body of POST /api/chat/sessions/:session_id/messages.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// CreateSession creates a chat session.
// POST /api/chat/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	session := h.sessions.CreateSession(req.Title, req.InitialIdea)
	return c.JSON(http.StatusCreated, session)
}

// ListSessions returns all sessions, newest first.
// GET /api/chat/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessions": h.sessions.ListSessions(),
	})
}

// GetSession returns one session.
// GET /api/chat/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	session, err := h.sessions.GetSession(c.Param("session_id"))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// DeleteSession removes a session and its messages.
// DELETE /api/chat/sessions/:session_id
func (h *Handler) DeleteSession(c echo.Context) error {
	if err := h.sessions.DeleteSession(c.Param("session_id")); err != nil {
		return sessionError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetSessionMessages returns a session's messages in append order.
// GET /api/chat/sessions/:session_id/messages
func (h *Handler) GetSessionMessages(c echo.Context) error {
	messages, err := h.sessions.ListMessages(c.Param("session_id"))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}

// SendMessage appends the user message and returns the placeholder
// assistant reply immediately; the upgrade happens in the background.
// POST /api/chat/sessions/:session_id/messages
func (h *Handler) SendMessage(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "content is required"})
	}

	placeholder, err := h.sessions.SendMessage(c.Param("session_id"), req.Content)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(http.StatusCreated, placeholder)
}

func sessionError(c echo.Context, err error) error {
	var unknown *domain.UnknownSessionError
	if errors.As(err, &unknown) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	log.Printf("ERROR: session operation failed: %v", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
