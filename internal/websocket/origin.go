package websocket

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	applogger "github.com/arthurlanz/portfolio-contact-backend/internal/logger"
)

// NewSecureUpgrader creates a WebSocket upgrader validating the Origin
// header against the configured comma-separated allow list. Rejected
// connections are reported through the security logger.
func NewSecureUpgrader(allowedOrigins string, secLog *applogger.SecurityLogger) websocket.Upgrader {
	origins := strings.Split(allowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	// Filter empty strings
	filtered := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin != "" {
			filtered = append(filtered, origin)
		}
	}
	origins = filtered

	// Default to localhost if no origins configured
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")

			// Allow same-origin requests (empty Origin)
			if origin == "" {
				return true
			}

			for _, allowed := range origins {
				if allowed == origin {
					return true
				}
			}

			if secLog != nil {
				secLog.InvalidOrigin(r.RemoteAddr, origin)
			}
			return false
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}
