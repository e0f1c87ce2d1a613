// Package mailer delivers contact notification emails outside the
// request/response lifecycle.
package mailer

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
	"github.com/jhillyerd/enmime"

	"github.com/arthurlanz/portfolio-contact-backend/internal/models"
)

// Notifier dispatches a notification for a stored contact message.
// Implementations must never surface errors to the caller.
type Notifier interface {
	Notify(msg *models.ContactMessage, sourceIP string)
}

// Transport sends a raw RFC 5322 message to the recipients. Exactly one
// transport is used per delivery attempt.
type Transport interface {
	Send(from string, to []string, raw []byte) error
}

// SMTPConfig holds the outbound transport configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// Recipient receives the contact notifications
	Recipient string
}

// Configured reports whether the transport has enough configuration to
// attempt delivery
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.From != "" && c.Recipient != ""
}

// smtpTransport delivers messages over SMTP with STARTTLS and optional
// PLAIN auth
type smtpTransport struct {
	addr string
	auth sasl.Client
}

// NewSMTPTransport creates a Transport backed by the configured SMTP server
func NewSMTPTransport(cfg SMTPConfig) Transport {
	var auth sasl.Client
	if cfg.Username != "" {
		auth = sasl.NewPlainClient("", cfg.Username, cfg.Password)
	}
	return &smtpTransport{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
	}
}

func (t *smtpTransport) Send(from string, to []string, raw []byte) error {
	if err := smtp.SendMail(t.addr, t.auth, from, to, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("smtp delivery failed: %w", err)
	}
	return nil
}

// ContactNotifier builds and sends contact notification emails.
// Delivery is best-effort, at-most-once: failures are logged and never
// retried or surfaced.
type ContactNotifier struct {
	cfg       SMTPConfig
	transport Transport
	logger    *slog.Logger
}

// NewContactNotifier creates a ContactNotifier. A nil transport with a
// configured SMTPConfig gets the default SMTP transport.
func NewContactNotifier(cfg SMTPConfig, transport Transport, logger *slog.Logger) *ContactNotifier {
	if transport == nil && cfg.Configured() {
		transport = NewSMTPTransport(cfg)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactNotifier{
		cfg:       cfg,
		transport: transport,
		logger:    logger,
	}
}

// Notify dispatches the notification in a detached goroutine. The caller
// holds no handle: the goroutine's outcome never reaches the response
// path. When the transport is not configured the delivery is skipped and
// the skip is logged.
func (n *ContactNotifier) Notify(msg *models.ContactMessage, sourceIP string) {
	if !n.cfg.Configured() || n.transport == nil {
		n.logger.Warn("mail transport not configured, skipping notification",
			slog.Uint64("message_id", uint64(msg.ID)),
			slog.String("sender", msg.Email),
		)
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				n.logger.Error("panic in notification dispatch",
					slog.Any("panic", r),
					slog.Uint64("message_id", uint64(msg.ID)),
				)
			}
		}()
		n.send(msg, sourceIP)
	}()
}

func (n *ContactNotifier) send(msg *models.ContactMessage, sourceIP string) {
	raw, err := n.buildMessage(msg, sourceIP)
	if err != nil {
		n.logger.Error("failed to build notification email",
			slog.Any("error", err),
			slog.Uint64("message_id", uint64(msg.ID)),
		)
		return
	}

	if err := n.transport.Send(n.cfg.From, []string{n.cfg.Recipient}, raw); err != nil {
		n.logger.Error("failed to send notification email",
			slog.Any("error", err),
			slog.Uint64("message_id", uint64(msg.ID)),
			slog.String("sender", msg.Email),
		)
		return
	}

	n.logger.Info("notification email sent",
		slog.Uint64("message_id", uint64(msg.ID)),
		slog.String("sender", msg.Email),
	)
}

// buildMessage assembles the multipart text+HTML notification
func (n *ContactNotifier) buildMessage(msg *models.ContactMessage, sourceIP string) ([]byte, error) {
	htmlBody, err := buildHTMLBody(msg, sourceIP)
	if err != nil {
		return nil, err
	}

	builder := enmime.Builder().
		From("", n.cfg.From).
		To("", n.cfg.Recipient).
		Subject(SubjectPrefix+msg.Subject).
		Header("Message-Id", fmt.Sprintf("<%s@portfolio-contact>", uuid.NewString())).
		Text([]byte(buildTextBody(msg, sourceIP))).
		HTML([]byte(htmlBody))

	part, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build MIME message: %w", err)
	}

	var buf bytes.Buffer
	if err := part.Encode(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode MIME message: %w", err)
	}
	return buf.Bytes(), nil
}
