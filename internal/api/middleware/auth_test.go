package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applogger "github.com/arthurlanz/portfolio-contact-backend/internal/logger"
)

func runAuth(t *testing.T, apiKey, authHeader string) (error, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	handler := APIKeyAuth(apiKey, nil, nil)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	return handler(c), called
}

func TestAPIKeyAuth_ValidKey(t *testing.T) {
	err, called := runAuth(t, "secret-key", "Bearer secret-key")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestAPIKeyAuth_MissingHeader(t *testing.T) {
	err, called := runAuth(t, "secret-key", "")
	require.Error(t, err)
	assert.False(t, called)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAPIKeyAuth_WrongKey(t *testing.T) {
	err, called := runAuth(t, "secret-key", "Bearer wrong-key")
	require.Error(t, err)
	assert.False(t, called)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAPIKeyAuth_BareTokenWithoutBearerPrefix(t *testing.T) {
	err, called := runAuth(t, "secret-key", "secret-key")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestAPIKeyAuth_EmptyKeyDisablesAuth(t *testing.T) {
	err, called := runAuth(t, "", "")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestAPIKeyAuth_FailureReportedToSecurityLog(t *testing.T) {
	var buf bytes.Buffer
	secLog := applogger.NewSecurityLoggerWithHandler(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	c := e.NewContext(req, httptest.NewRecorder())

	handler := APIKeyAuth("secret-key", secLog, nil)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.Error(t, handler(c))

	assert.Contains(t, buf.String(), "auth_failure")
	assert.Contains(t, buf.String(), "invalid_key")
	assert.NotContains(t, buf.String(), "wrong-key")
}
