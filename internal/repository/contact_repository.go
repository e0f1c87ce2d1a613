package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arthurlanz/portfolio-contact-backend/internal/models"
	"gorm.io/gorm"
)

// ContactRepository defines the interface for contact message data access
type ContactRepository interface {
	Create(ctx context.Context, message *models.ContactMessage) error
	GetByID(ctx context.Context, id uint) (*models.ContactMessage, error)
	List(ctx context.Context, unreadOnly bool, limit, offset int) ([]models.ContactMessageListItem, int64, error)
	MarkAsRead(ctx context.Context, id uint) error
	MarkAsUnread(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	CountUnread(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

// contactRepository implements ContactRepository using GORM
type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new ContactRepository instance
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

// Create persists a new contact message
func (r *contactRepository) Create(ctx context.Context, message *models.ContactMessage) error {
	result := r.db.WithContext(ctx).Create(message)
	if result.Error != nil {
		return fmt.Errorf("failed to create contact message: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a contact message by its ID
func (r *contactRepository) GetByID(ctx context.Context, id uint) (*models.ContactMessage, error) {
	var message models.ContactMessage
	result := r.db.WithContext(ctx).First(&message, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact message by ID: %w", result.Error)
	}
	return &message, nil
}

// List retrieves contact messages with pagination, newest first
func (r *contactRepository) List(ctx context.Context, unreadOnly bool, limit, offset int) ([]models.ContactMessageListItem, int64, error) {
	var total int64

	countQuery := r.db.WithContext(ctx).Model(&models.ContactMessage{})
	if unreadOnly {
		countQuery = countQuery.Where("is_read = ?", false)
	}
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contact messages: %w", err)
	}

	listQuery := r.db.WithContext(ctx).Model(&models.ContactMessage{})
	if unreadOnly {
		listQuery = listQuery.Where("is_read = ?", false)
	}

	var results []models.ContactMessageListItem
	if err := listQuery.
		Select("id", "name", "email", "subject", "is_read", "created_at", "source_ip").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list contact messages: %w", err)
	}

	return results, total, nil
}

// MarkAsRead marks a contact message as read
func (r *contactRepository) MarkAsRead(ctx context.Context, id uint) error {
	return r.setReadFlag(ctx, id, true)
}

// MarkAsUnread marks a contact message as unread
func (r *contactRepository) MarkAsUnread(ctx context.Context, id uint) error {
	return r.setReadFlag(ctx, id, false)
}

func (r *contactRepository) setReadFlag(ctx context.Context, id uint, read bool) error {
	result := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Where("id = ?", id).Update("is_read", read)
	if result.Error != nil {
		return fmt.Errorf("failed to update read flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a contact message by its ID
func (r *contactRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.ContactMessage{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete contact message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUnread counts unread contact messages
func (r *contactRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Where("is_read = ?", false).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", result.Error)
	}
	return count, nil
}

// CountSince counts contact messages created at or after the given time
func (r *contactRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Where("created_at >= ?", since).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count messages since: %w", result.Error)
	}
	return count, nil
}
