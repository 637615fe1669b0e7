package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deepneed/chatcore/registry"
)

// Handler handles HTTP requests.
type Handler struct {
	sessions *SessionAPI
	registry *registry.Registry
}

// NewHandler creates a new handler.
func NewHandler(sessions *SessionAPI, reg *registry.Registry) *Handler {
	return &Handler{
		sessions: sessions,
		registry: reg,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Chat API
	e.POST("/api/chat/sessions", h.CreateSession)
	e.GET("/api/chat/sessions", h.ListSessions)
	e.GET("/api/chat/sessions/:session_id", h.GetSession)
	e.DELETE("/api/chat/sessions/:session_id", h.DeleteSession)
	e.GET("/api/chat/sessions/:session_id/messages", h.GetSessionMessages)
	e.POST("/api/chat/sessions/:session_id/messages", h.SendMessage)

	// Provider configuration API (settings UI)
	e.GET("/api/ai/providers", h.ListProviders)
	e.PUT("/api/ai/providers/:provider_id/enabled", h.SetProviderEnabled)
	e.PUT("/api/ai/providers/:provider_id/priority", h.SetProviderPriority)
	e.PUT("/api/ai/providers/:provider_id/credential", h.SetProviderCredential)
	e.POST("/api/ai/providers/reset", h.ResetProviders)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
