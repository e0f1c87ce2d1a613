package models

import (
	"time"
)

// ContactMessage represents a contact form submission stored for review
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:200" json:"name"`
	Email     string    `gorm:"not null;size:255;index" json:"email"`
	Subject   string    `gorm:"not null;size:300" json:"subject"`
	Message   string    `gorm:"not null;type:text" json:"message"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	SourceIP  *string   `gorm:"size:45" json:"source_ip,omitempty"`
}

// TableName returns the table name for ContactMessage
func (ContactMessage) TableName() string {
	return "contact_messages"
}

// ContactMessageListItem is a lightweight version for list views,
// omitting the message body
type ContactMessageListItem struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	SourceIP  *string   `json:"source_ip,omitempty"`
}
