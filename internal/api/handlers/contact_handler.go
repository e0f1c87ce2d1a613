package handlers

import (
	"log/slog"
	"net"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/arthurlanz/portfolio-contact-backend/internal/api/response"
	"github.com/arthurlanz/portfolio-contact-backend/internal/logger"
	"github.com/arthurlanz/portfolio-contact-backend/internal/mailer"
	"github.com/arthurlanz/portfolio-contact-backend/internal/ratelimit"
	"github.com/arthurlanz/portfolio-contact-backend/internal/repository"
	"github.com/arthurlanz/portfolio-contact-backend/internal/validator"
	ws "github.com/arthurlanz/portfolio-contact-backend/internal/websocket"
)

// SubmissionAck is returned on a successful submission. It never echoes
// the message body or the source IP.
type SubmissionAck struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	CreatedAt string `json:"created_at"`
}

// ContactHandler handles contact form submissions
type ContactHandler struct {
	repo     repository.ContactRepository
	limiter  ratelimit.SubmissionLimiter
	notifier mailer.Notifier
	hub      *ws.Hub
	secLog   *logger.SecurityLogger
	logger   *slog.Logger
	// production hides internal error detail from clients
	production bool
}

// NewContactHandler creates a new ContactHandler. hub may be nil when no
// dashboard feed is running.
func NewContactHandler(
	repo repository.ContactRepository,
	limiter ratelimit.SubmissionLimiter,
	notifier mailer.Notifier,
	hub *ws.Hub,
	secLog *logger.SecurityLogger,
	log *slog.Logger,
	production bool,
) *ContactHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ContactHandler{
		repo:       repo,
		limiter:    limiter,
		notifier:   notifier,
		hub:        hub,
		secLog:     secLog,
		logger:     log,
		production: production,
	}
}

// Submit handles POST /send.
//
// The throttle runs before validation and counts every attempt from an
// IP, valid or not; requests rejected by the throttle itself are not
// counted. Persistence only happens after the full field validation
// passes, and the notification dispatch can never affect the response.
func (h *ContactHandler) Submit(c echo.Context) error {
	ip := clientIP(c)

	key := ""
	if ip != nil {
		key = *ip
	}

	decision := h.limiter.Allow(key)
	if !decision.Allowed {
		if h.secLog != nil {
			h.secLog.SubmissionThrottled(key, decision.RetryAfter)
		}
		return response.RateLimited(c, "Too many messages. Please try again later.", decision.RetryAfter)
	}

	var in validator.ContactInput
	if err := c.Bind(&in); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	msg, fieldErrs := validator.ValidateContact(in)
	if fieldErrs != nil {
		return response.ValidationFailed(c, "Invalid submission.", fieldErrs)
	}

	msg.SourceIP = ip
	if err := h.repo.Create(c.Request().Context(), msg); err != nil {
		h.logger.Error("failed to persist contact message",
			slog.Any("error", err),
			slog.String("sender", msg.Email),
		)
		detail := ""
		if !h.production {
			detail = err.Error()
		}
		return response.InternalError(c, "Failed to process your message. Please try again.", detail)
	}

	h.logger.Info("new contact message",
		slog.Uint64("id", uint64(msg.ID)),
		slog.String("name", msg.Name),
		slog.String("email", msg.Email),
	)

	// Fire-and-forget: neither delivery nor broadcast outcome reaches
	// the response
	h.notifier.Notify(msg, key)
	if h.hub != nil {
		h.hub.BroadcastNewSubmission(&ws.NewSubmissionPayload{
			ID:        msg.ID,
			Name:      msg.Name,
			Email:     msg.Email,
			Subject:   msg.Subject,
			CreatedAt: msg.CreatedAt,
		})
	}

	return response.Created(c, SubmissionAck{
		ID:        msg.ID,
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		CreatedAt: msg.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}, "Message sent successfully. I will reply soon.")
}

// clientIP resolves the submitting client's address: the first
// comma-separated entry of X-Forwarded-For when present, otherwise the
// direct connection address. Returns nil when neither is available.
func clientIP(c echo.Context) *string {
	if fwd := c.Request().Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return &first
		}
	}

	remote := c.Request().RemoteAddr
	if remote == "" {
		return nil
	}
	if host, _, err := net.SplitHostPort(remote); err == nil {
		return &host
	}
	return &remote
}
