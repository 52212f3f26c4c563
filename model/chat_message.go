package model

import (
	"time"
)

// MessageRole represents the role of the message sender
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleSystem    MessageRole = "system"
)

// ChatMessage represents a single turn in a conversation. Messages are
// immutable once created; they are only ever deleted in bulk when their
// session is cleared or swept.
type ChatMessage struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	SessionID uint        `gorm:"not null;index" json:"session_id"`
	Role      MessageRole `gorm:"type:varchar(20);not null" json:"role"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time   `json:"created_at"`

	// Relationships
	Session ChatSession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"session,omitempty"`
}

// TableName specifies the table name for ChatMessage
func (ChatMessage) TableName() string {
	return "chat_messages"
}
