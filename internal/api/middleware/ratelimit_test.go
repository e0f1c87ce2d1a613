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

func TestRateLimiter_AllowsWithinBudget(t *testing.T) {
	e := echo.New()
	handler := RateLimiter(100, 10, nil)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "203.0.113.10:50000"
	rec := httptest.NewRecorder()

	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_RejectionReportedToSecurityLog(t *testing.T) {
	var buf bytes.Buffer
	secLog := applogger.NewSecurityLoggerWithHandler(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	handler := RateLimiter(1, 1, secLog)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	do := func() error {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "203.0.113.11:50000"
		return handler(e.NewContext(req, httptest.NewRecorder()))
	}

	require.NoError(t, do())

	// Burst of one, so the second request is rejected
	err := do()
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)

	assert.Contains(t, buf.String(), "rate_limit")
	assert.Contains(t, buf.String(), "203.0.113.11")
}

func TestRateLimiter_IPsAreIndependent(t *testing.T) {
	e := echo.New()
	handler := RateLimiter(1, 1, nil)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	do := func(addr string) error {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = addr
		return handler(e.NewContext(req, httptest.NewRecorder()))
	}

	require.NoError(t, do("203.0.113.20:50000"))
	require.Error(t, do("203.0.113.20:50000"))
	assert.NoError(t, do("203.0.113.21:50000"))
}
