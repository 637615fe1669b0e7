package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepneed/chatcore/api"
	"github.com/deepneed/chatcore/domain"
	"github.com/deepneed/chatcore/registry"
	"github.com/deepneed/chatcore/tests/helpers"
)

func newHandler(t *testing.T) (*api.Handler, *fixture, *registry.Registry) {
	t.Helper()

	f := newFixture(t, []domain.ProviderConfig{helpers.Provider("p1", 1)},
		map[string]helpers.Response{"p1": {Content: "real answer"}})
	reg := registry.New(nil, registry.Defaults())
	return api.NewHandler(f.api, reg), f, reg
}

func doJSON(e *echo.Echo, method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	if len(names) > 0 {
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

func TestCreateSessionEndpoint(t *testing.T) {
	h, _, _ := newHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/api/chat/sessions",
		`{"title":"","initial_idea":"a meal planning app"}`)
	require.NoError(t, h.CreateSession(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var session domain.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, "a meal planning app", session.InitialIdea)
	assert.NotEmpty(t, session.Title, "empty title falls back to the default")
}

func TestListSessionsEndpoint(t *testing.T) {
	h, f, _ := newHandler(t)
	e := echo.New()

	first := f.api.CreateSession("first", "")
	time.Sleep(2 * time.Millisecond)
	second := f.api.CreateSession("second", "")

	c, rec := doJSON(e, http.MethodGet, "/api/chat/sessions", "")
	require.NoError(t, h.ListSessions(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Sessions []domain.Session `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Sessions, 2)
	assert.Equal(t, second.SessionID, resp.Sessions[0].SessionID, "newest first")
	assert.Equal(t, first.SessionID, resp.Sessions[1].SessionID)
}

func TestGetSessionNotFound(t *testing.T) {
	h, _, _ := newHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodGet, "/api/chat/sessions/sess_missing", "",
		"session_id", "sess_missing")
	require.NoError(t, h.GetSession(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendMessageEndpoint(t *testing.T) {
	h, f, _ := newHandler(t)
	e := echo.New()

	session := f.api.CreateSession("", "")

	c, rec := doJSON(e, http.MethodPost, "/api/chat/sessions/"+session.SessionID+"/messages",
		`{"content":"how should I price this?"}`,
		"session_id", session.SessionID)
	require.NoError(t, h.SendMessage(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var placeholder domain.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placeholder))
	assert.Equal(t, domain.RoleAssistant, placeholder.Role)
	assert.Equal(t, domain.MessageStatePlaceholder, placeholder.State)
	assert.NotEmpty(t, placeholder.Content)

	f.worker.Wait()
}

func TestSendMessageEmptyContent(t *testing.T) {
	h, f, _ := newHandler(t)
	e := echo.New()

	session := f.api.CreateSession("", "")

	c, rec := doJSON(e, http.MethodPost, "/api/chat/sessions/"+session.SessionID+"/messages",
		`{"content":"   "}`,
		"session_id", session.SessionID)
	require.NoError(t, h.SendMessage(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessageUnknownSessionEndpoint(t *testing.T) {
	h, _, _ := newHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/api/chat/sessions/sess_missing/messages",
		`{"content":"hello"}`,
		"session_id", "sess_missing")
	require.NoError(t, h.SendMessage(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSessionEndpoint(t *testing.T) {
	h, f, _ := newHandler(t)
	e := echo.New()

	session := f.api.CreateSession("", "")

	c, rec := doJSON(e, http.MethodDelete, "/api/chat/sessions/"+session.SessionID, "",
		"session_id", session.SessionID)
	require.NoError(t, h.DeleteSession(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := f.api.GetSession(session.SessionID)
	assert.Error(t, err)
}

func TestGetSessionMessagesEndpoint(t *testing.T) {
	h, f, _ := newHandler(t)
	e := echo.New()

	session := f.api.CreateSession("", "")
	_, err := f.api.SendMessage(session.SessionID, "hello")
	require.NoError(t, err)
	f.worker.Wait()

	c, rec := doJSON(e, http.MethodGet, "/api/chat/sessions/"+session.SessionID+"/messages", "",
		"session_id", session.SessionID)
	require.NoError(t, h.GetSessionMessages(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []domain.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, domain.RoleUser, resp.Messages[0].Role)
	assert.Equal(t, domain.RoleAssistant, resp.Messages[1].Role)
}

func TestListProvidersHidesCredential(t *testing.T) {
	h, _, reg := newHandler(t)
	e := echo.New()

	require.NoError(t, reg.SetCredential("claude", "sk-secret-value"))

	c, rec := doJSON(e, http.MethodGet, "/api/ai/providers", "")
	require.NoError(t, h.ListProviders(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "sk-secret-value")

	var resp struct {
		Providers []api.ProviderView `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Providers, 2)
	for _, p := range resp.Providers {
		if p.ProviderID == "claude" {
			assert.True(t, p.CredentialConfigured)
		} else {
			assert.False(t, p.CredentialConfigured)
		}
	}
}

func TestSetProviderEnabledEndpoint(t *testing.T) {
	h, _, reg := newHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPut, "/api/ai/providers/claude/enabled",
		`{"enabled":false}`,
		"provider_id", "claude")
	require.NoError(t, h.SetProviderEnabled(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	for _, p := range reg.List() {
		if p.ProviderID == "claude" {
			assert.False(t, p.Enabled)
		}
	}
}

func TestSetProviderPriorityValidation(t *testing.T) {
	h, _, _ := newHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPut, "/api/ai/providers/claude/priority",
		`{"priority":0}`,
		"provider_id", "claude")
	require.NoError(t, h.SetProviderPriority(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetProviderUnknownID(t *testing.T) {
	h, _, _ := newHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPut, "/api/ai/providers/nope/priority",
		`{"priority":3}`,
		"provider_id", "nope")
	require.NoError(t, h.SetProviderPriority(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetProvidersEndpoint(t *testing.T) {
	h, _, reg := newHandler(t)
	e := echo.New()

	require.NoError(t, reg.SetEnabled("claude", false))
	require.NoError(t, reg.SetPriority("deepseek", 9))

	c, rec := doJSON(e, http.MethodPost, "/api/ai/providers/reset", "")
	require.NoError(t, h.ResetProviders(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	for _, p := range reg.List() {
		switch p.ProviderID {
		case "claude":
			assert.True(t, p.Enabled)
			assert.Equal(t, 1, p.Priority)
		case "deepseek":
			assert.Equal(t, 2, p.Priority)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	h, _, _ := newHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodGet, "/health", "")
	require.NoError(t, h.Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
