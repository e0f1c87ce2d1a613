package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SecureCORS returns CORS middleware restricted to the given origins.
// Wildcard origins are stripped in production.
func SecureCORS(allowedOrigins, appEnv string) echo.MiddlewareFunc {
	origins := strings.Split(allowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	filtered := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin == "" {
			continue
		}
		if appEnv == "production" && origin == "*" {
			continue
		}
		filtered = append(filtered, origin)
	}
	origins = filtered

	// Default to localhost only when nothing is configured
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowMethods:     []string{echo.GET, echo.POST, echo.PATCH, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
