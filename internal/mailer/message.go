package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/arthurlanz/portfolio-contact-backend/internal/models"
)

// SubjectPrefix is prepended to the stored subject on the outbound
// notification
const SubjectPrefix = "[Portfolio] "

const timestampLayout = "02/01/2006 15:04"

var htmlTemplate = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
  .content { background: #f9f9f9; padding: 30px; border: 1px solid #e0e0e0; }
  .info-box { background: white; padding: 20px; margin: 20px 0; border-radius: 5px;
              border-left: 4px solid #667eea; }
  .info-label { font-weight: bold; color: #667eea; margin-bottom: 5px; }
  .message-box { background: white; padding: 20px; border-radius: 5px; margin-top: 20px; }
  .footer { background: #333; color: #999; padding: 20px; text-align: center;
            font-size: 12px; border-radius: 0 0 10px 10px; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>New message from the portfolio</h1>
  </div>
  <div class="content">
    <div class="info-box">
      <div class="info-label">Name:</div>
      <div>{{.Name}}</div>
    </div>
    <div class="info-box">
      <div class="info-label">Email:</div>
      <div><a href="mailto:{{.Email}}">{{.Email}}</a></div>
    </div>
    <div class="info-box">
      <div class="info-label">Subject:</div>
      <div>{{.Subject}}</div>
    </div>
    <div class="message-box">
      <div class="info-label">Message:</div>
      <p>{{.Message}}</p>
    </div>
    <div style="margin-top: 20px; padding: 15px; background: #e7f3ff; border-radius: 5px;">
      <small>
        <strong>Date:</strong> {{.SentAt}}<br>
        <strong>IP:</strong> {{.SourceIP}}
      </small>
    </div>
  </div>
  <div class="footer">
    <p>Sent via the portfolio contact form.</p>
    <p>This is an automated email, do not reply.</p>
  </div>
</div>
</body>
</html>
`))

type notificationData struct {
	Name     string
	Email    string
	Subject  string
	Message  string
	SentAt   string
	SourceIP string
}

func newNotificationData(msg *models.ContactMessage, sourceIP string) notificationData {
	if sourceIP == "" {
		sourceIP = "unknown"
	}
	return notificationData{
		Name:     msg.Name,
		Email:    msg.Email,
		Subject:  msg.Subject,
		Message:  msg.Message,
		SentAt:   msg.CreatedAt.Local().Format(timestampLayout),
		SourceIP: sourceIP,
	}
}

// buildTextBody renders the plain-text notification summary
func buildTextBody(msg *models.ContactMessage, sourceIP string) string {
	d := newNotificationData(msg, sourceIP)
	return fmt.Sprintf(`New contact message

Name: %s
Email: %s
Subject: %s

Message:
%s

Date: %s
IP: %s
`, d.Name, d.Email, d.Subject, d.Message, d.SentAt, d.SourceIP)
}

// buildHTMLBody renders the HTML notification
func buildHTMLBody(msg *models.ContactMessage, sourceIP string) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, newNotificationData(msg, sourceIP)); err != nil {
		return "", fmt.Errorf("failed to render notification HTML: %w", err)
	}
	return buf.String(), nil
}

// formatTimestamp is exposed for tests that pin the layout
func formatTimestamp(t time.Time) string {
	return t.Local().Format(timestampLayout)
}
