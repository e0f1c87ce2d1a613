package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/arthurlanz/portfolio-contact-backend/internal/api/handlers"
	"github.com/arthurlanz/portfolio-contact-backend/internal/api/middleware"
	"github.com/arthurlanz/portfolio-contact-backend/internal/config"
	applogger "github.com/arthurlanz/portfolio-contact-backend/internal/logger"
	"github.com/arthurlanz/portfolio-contact-backend/internal/mailer"
	"github.com/arthurlanz/portfolio-contact-backend/internal/ratelimit"
	"github.com/arthurlanz/portfolio-contact-backend/internal/repository"
	ws "github.com/arthurlanz/portfolio-contact-backend/internal/websocket"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   *slog.Logger
	Notifier mailer.Notifier
	Limiter  ratelimit.SubmissionLimiter
	Hub      *ws.Hub
	SecLog   *applogger.SecurityLogger
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware, in order: recover, request ID, headers, CORS, flood
	// limiter, request logging
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.SecureHeaders())
	e.Use(middleware.SecureCORS(cfg.Config.AllowedOrigins, cfg.Config.AppEnv))
	e.Use(middleware.RateLimiter(cfg.Config.RateLimitRequests, cfg.Config.RateLimitBurst, cfg.SecLog))
	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}

	contactRepo := repository.NewContactRepository(cfg.DB)

	healthHandler := handlers.NewHealthHandler(cfg.DB)
	contactHandler := handlers.NewContactHandler(
		contactRepo,
		cfg.Limiter,
		cfg.Notifier,
		cfg.Hub,
		cfg.SecLog,
		cfg.Logger,
		cfg.Config.IsProduction(),
	)
	adminHandler := handlers.NewAdminHandler(contactRepo, cfg.Logger)

	// Public routes
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)
	e.POST("/send", contactHandler.Submit)

	// Admin API behind API key auth
	api := e.Group("/api")
	api.Use(middleware.APIKeyAuth(cfg.Config.APIKey, cfg.SecLog, cfg.Logger))

	messages := api.Group("/messages")
	messages.GET("", adminHandler.List)
	messages.GET("/unread/count", adminHandler.UnreadCount)
	messages.GET("/stats", adminHandler.Stats)
	messages.GET("/:id", adminHandler.Get)
	messages.PATCH("/:id/read", adminHandler.MarkAsRead)
	messages.PATCH("/:id/unread", adminHandler.MarkAsUnread)
	messages.DELETE("/:id", adminHandler.Delete)

	// Dashboard submission feed
	if cfg.Hub != nil {
		wsHandler := handlers.NewWSHandler(cfg.Hub, ws.NewSecureUpgrader(cfg.Config.AllowedOrigins, cfg.SecLog), cfg.Logger)
		e.GET("/ws", wsHandler.Serve)
	}

	return e
}
