package model

import (
	"time"

	"gorm.io/gorm"
)

// SessionRetentionWindow is how long a session may stay idle before the
// housekeeping sweep removes it.
const SessionRetentionWindow = 24 * time.Hour

// ChatSession represents one conversation between a visitor and the assistant.
// SessionKey is an opaque token held by the client for the lifetime of the
// browser tab; it is the only thing the widget needs to resume a conversation.
type ChatSession struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	SessionKey     string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"session_key"`
	UserRef        string         `gorm:"type:varchar(100)" json:"user_ref,omitempty"`
	MessageCount   int            `gorm:"default:0" json:"message_count"`
	LastActivityAt time.Time      `json:"last_activity_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Messages []ChatMessage `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

// TableName specifies the table name for ChatSession
func (ChatSession) TableName() string {
	return "chat_sessions"
}

// IsExpired reports whether the session has been idle past the retention window.
func (s *ChatSession) IsExpired(now time.Time) bool {
	return now.Sub(s.LastActivityAt) > SessionRetentionWindow
}
