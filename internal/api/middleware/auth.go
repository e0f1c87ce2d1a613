// Package middleware provides HTTP middleware for the contact backend API.
package middleware

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"

	applogger "github.com/arthurlanz/portfolio-contact-backend/internal/logger"
)

// APIKeyAuth validates the API key from the Authorization header.
// Uses constant-time comparison to prevent timing attacks. An empty key
// disables authentication (development mode). Failed attempts are
// reported through the security logger.
func APIKeyAuth(apiKey string, secLog *applogger.SecurityLogger, logger *slog.Logger) echo.MiddlewareFunc {
	if apiKey == "" && logger != nil {
		logger.Warn("API_KEY not set - admin API is UNSECURED")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if apiKey == "" {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if secLog != nil {
					secLog.AuthFailure(c.RealIP(), c.Path(), "missing_header")
				}
				return echo.NewHTTPError(401, map[string]string{
					"error": "missing authorization header",
					"code":  "UNAUTHORIZED",
				})
			}

			// Extract token from "Bearer <token>" format
			token := strings.TrimPrefix(authHeader, "Bearer ")
			token = strings.TrimSpace(token)

			if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
				if secLog != nil {
					secLog.AuthFailure(c.RealIP(), c.Path(), "invalid_key")
				}
				return echo.NewHTTPError(401, map[string]string{
					"error": "invalid API key",
					"code":  "UNAUTHORIZED",
				})
			}

			return next(c)
		}
	}
}
