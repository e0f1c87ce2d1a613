package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/arthurlanz/portfolio-contact-backend/internal/models"
	"github.com/arthurlanz/portfolio-contact-backend/internal/ratelimit"
)

// MockNotifier implements mailer.Notifier
type MockNotifier struct {
	mock.Mock
}

// Notify records a notification dispatch
func (m *MockNotifier) Notify(msg *models.ContactMessage, sourceIP string) {
	m.Called(msg, sourceIP)
}

// MockTransport implements mailer.Transport
type MockTransport struct {
	mock.Mock
}

// Send records a delivery attempt
func (m *MockTransport) Send(from string, to []string, raw []byte) error {
	args := m.Called(from, to, raw)
	return args.Error(0)
}

// MockSubmissionLimiter implements a fixed-decision ratelimit.SubmissionLimiter
type MockSubmissionLimiter struct {
	mock.Mock
}

// Allow returns the programmed decision for the key
func (m *MockSubmissionLimiter) Allow(key string) ratelimit.Decision {
	args := m.Called(key)
	return args.Get(0).(ratelimit.Decision)
}
