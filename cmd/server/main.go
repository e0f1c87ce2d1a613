package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/arthurlanz/portfolio-contact-backend/internal/api"
	"github.com/arthurlanz/portfolio-contact-backend/internal/config"
	"github.com/arthurlanz/portfolio-contact-backend/internal/database"
	applogger "github.com/arthurlanz/portfolio-contact-backend/internal/logger"
	"github.com/arthurlanz/portfolio-contact-backend/internal/mailer"
	"github.com/arthurlanz/portfolio-contact-backend/internal/ratelimit"
	ws "github.com/arthurlanz/portfolio-contact-backend/internal/websocket"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadWithValidation()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("Starting portfolio contact backend...")
	cfg.LogConfig(logger)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Submission throttle: 5 accepted attempts per rolling hour per IP
	limiter := ratelimit.NewWindowLimiter(cfg.SubmissionLimit, cfg.SubmissionWindow)
	limiter.StartJanitor(ctx, 10*time.Minute)

	notifier := mailer.NewContactNotifier(mailer.SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		From:      cfg.SMTPFrom,
		Recipient: cfg.ContactEmail,
	}, nil, logger)

	hub := ws.NewHub(logger)
	go hub.Run()

	e := api.NewRouter(&api.RouterConfig{
		DB:       db,
		Config:   cfg,
		Logger:   logger,
		Notifier: notifier,
		Limiter:  limiter,
		Hub:      hub,
		SecLog:   applogger.NewSecurityLogger(),
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.APIPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}

	logger.Info("Server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
