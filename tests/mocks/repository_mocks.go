package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/arthurlanz/portfolio-contact-backend/internal/models"
)

// MockContactRepository implements repository.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

// Create persists a new contact message
func (m *MockContactRepository) Create(ctx context.Context, message *models.ContactMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// GetByID retrieves a contact message by its ID
func (m *MockContactRepository) GetByID(ctx context.Context, id uint) (*models.ContactMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactMessage), args.Error(1)
}

// List retrieves contact messages with pagination
func (m *MockContactRepository) List(ctx context.Context, unreadOnly bool, limit, offset int) ([]models.ContactMessageListItem, int64, error) {
	args := m.Called(ctx, unreadOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.ContactMessageListItem), args.Get(1).(int64), args.Error(2)
}

// MarkAsRead marks a contact message as read
func (m *MockContactRepository) MarkAsRead(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MarkAsUnread marks a contact message as unread
func (m *MockContactRepository) MarkAsUnread(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Delete deletes a contact message by its ID
func (m *MockContactRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// CountUnread counts unread contact messages
func (m *MockContactRepository) CountUnread(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// CountSince counts contact messages created at or after the given time
func (m *MockContactRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}
