package handlers

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arthurlanz/portfolio-contact-backend/internal/api/response"
	apperrors "github.com/arthurlanz/portfolio-contact-backend/internal/errors"
	"github.com/arthurlanz/portfolio-contact-backend/internal/repository"
)

// AdminHandler serves the authenticated message-review API
type AdminHandler struct {
	repo   repository.ContactRepository
	logger *slog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(repo repository.ContactRepository, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{repo: repo, logger: logger}
}

// messageID parses the :id route parameter
func messageID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperrors.WrapInvalidInput("message ID must be numeric")
	}
	return uint(id), nil
}

// List handles GET /api/messages
func (h *AdminHandler) List(c echo.Context) error {
	limit := 20
	offset := 0

	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if o := c.QueryParam("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	unreadOnly := c.QueryParam("unread") == "true"

	messages, total, err := h.repo.List(c.Request().Context(), unreadOnly, limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to list messages", "")
	}

	return response.Paginated(c, messages, total, limit, offset)
}

// Get handles GET /api/messages/:id and marks the message read
func (h *AdminHandler) Get(c echo.Context) error {
	id, err := messageID(c)
	if err != nil {
		return response.Error(c, err)
	}

	message, err := h.repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.Error(c, apperrors.ErrMessageNotFound)
		}
		return response.InternalError(c, "failed to get message", "")
	}

	// Opening a message marks it read. A failed flag update is reported
	// as still unread rather than claiming a write that did not happen.
	if !message.IsRead {
		if err := h.repo.MarkAsRead(c.Request().Context(), id); err != nil {
			h.logger.Error("failed to mark message as read",
				slog.Any("error", err),
				slog.Uint64("message_id", uint64(id)),
			)
		} else {
			message.IsRead = true
		}
	}

	return response.Success(c, message)
}

// MarkAsRead handles PATCH /api/messages/:id/read
func (h *AdminHandler) MarkAsRead(c echo.Context) error {
	return h.setReadFlag(c, true)
}

// MarkAsUnread handles PATCH /api/messages/:id/unread
func (h *AdminHandler) MarkAsUnread(c echo.Context) error {
	return h.setReadFlag(c, false)
}

func (h *AdminHandler) setReadFlag(c echo.Context, read bool) error {
	id, err := messageID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var opErr error
	if read {
		opErr = h.repo.MarkAsRead(c.Request().Context(), id)
	} else {
		opErr = h.repo.MarkAsUnread(c.Request().Context(), id)
	}

	if opErr != nil {
		if errors.Is(opErr, repository.ErrNotFound) {
			return response.Error(c, apperrors.ErrMessageNotFound)
		}
		return response.InternalError(c, "failed to update message", "")
	}

	if read {
		return response.SuccessWithMessage(c, nil, "message marked as read")
	}
	return response.SuccessWithMessage(c, nil, "message marked as unread")
}

// Delete handles DELETE /api/messages/:id
func (h *AdminHandler) Delete(c echo.Context) error {
	id, err := messageID(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.repo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.Error(c, apperrors.ErrMessageNotFound)
		}
		return response.InternalError(c, "failed to delete message", "")
	}

	return response.NoContent(c)
}

// UnreadCount handles GET /api/messages/unread/count
func (h *AdminHandler) UnreadCount(c echo.Context) error {
	count, err := h.repo.CountUnread(c.Request().Context())
	if err != nil {
		return response.InternalError(c, "failed to count unread messages", "")
	}

	return response.Success(c, map[string]int64{"unread": count})
}

// Stats handles GET /api/messages/stats
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	unread, err := h.repo.CountUnread(ctx)
	if err != nil {
		return response.InternalError(c, "failed to compute message stats", "")
	}

	last24h, err := h.repo.CountSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		return response.InternalError(c, "failed to compute message stats", "")
	}

	return response.Success(c, map[string]int64{
		"unread":   unread,
		"last_24h": last24h,
	})
}
