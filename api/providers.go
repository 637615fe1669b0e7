package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deepneed/chatcore/domain"
)

// ProviderView is the outward shape of a provider config. The credential
// itself is never returned, only whether one is set.
type ProviderView struct {
	ProviderID           string `json:"provider_id"`
	DisplayName          string `json:"display_name"`
	Enabled              bool   `json:"enabled"`
	Priority             int    `json:"priority"`
	CredentialConfigured bool   `json:"credential_configured"`
	TimeoutMs            int64  `json:"timeout_ms"`
	Description          string `json:"description,omitempty"`
}

// SetEnabledRequest is the body of PUT .../enabled.
type SetEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// SetPriorityRequest is the body of PUT .../priority.
type SetPriorityRequest struct {
	Priority int `json:"priority"`
}

// SetCredentialRequest is the body of PUT .../credential.
type SetCredentialRequest struct {
	Credential string `json:"credential"`
}

// ListProviders returns every known provider.
// GET /api/ai/providers
func (h *Handler) ListProviders(c echo.Context) error {
	providers := h.registry.List()
	views := make([]ProviderView, 0, len(providers))
	for _, p := range providers {
		views = append(views, ProviderView{
			ProviderID:           p.ProviderID,
			DisplayName:          p.DisplayName,
			Enabled:              p.Enabled,
			Priority:             p.Priority,
			CredentialConfigured: p.Credential != "",
			TimeoutMs:            p.Timeout.Milliseconds(),
			Description:          p.Description,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"providers": views,
	})
}

// SetProviderEnabled toggles a provider.
// PUT /api/ai/providers/:provider_id/enabled
func (h *Handler) SetProviderEnabled(c echo.Context) error {
	var req SetEnabledRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.registry.SetEnabled(c.Param("provider_id"), req.Enabled); err != nil {
		return providerError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetProviderPriority changes a provider's attempt priority.
// PUT /api/ai/providers/:provider_id/priority
func (h *Handler) SetProviderPriority(c echo.Context) error {
	var req SetPriorityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Priority < 1 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "priority must be >= 1"})
	}
	if err := h.registry.SetPriority(c.Param("provider_id"), req.Priority); err != nil {
		return providerError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetProviderCredential stores a provider's API credential.
// PUT /api/ai/providers/:provider_id/credential
func (h *Handler) SetProviderCredential(c echo.Context) error {
	var req SetCredentialRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.registry.SetCredential(c.Param("provider_id"), req.Credential); err != nil {
		return providerError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ResetProviders restores the built-in default provider set.
// POST /api/ai/providers/reset
func (h *Handler) ResetProviders(c echo.Context) error {
	h.registry.ResetToDefaults()
	return c.NoContent(http.StatusNoContent)
}

func providerError(c echo.Context, err error) error {
	var unknown *domain.UnknownProviderError
	if errors.As(err, &unknown) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
