package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageDirection distinguishes inbound user messages from outbound replies.
type MessageDirection string

const (
	DirectionInbound  MessageDirection = "IN"
	DirectionOutbound MessageDirection = "OUT"
)

// Message is one conversation turn with a user.
type Message struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	PlatformUserID string           `gorm:"type:varchar(64);not null;index" json:"platform_user_id"`
	Direction      MessageDirection `gorm:"type:varchar(8);not null" json:"direction"`
	Intent         Intent           `gorm:"type:varchar(32)" json:"intent,omitempty"`
	Content        string           `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time        `gorm:"not null;index" json:"created_at"`
}

// TableName returns the table name for GORM
func (Message) TableName() string {
	return "zalo_messages"
}

// NewInboundMessage records a message received from a user.
func NewInboundMessage(platformUserID, content string, intent Intent) *Message {
	return &Message{
		ID:             uuid.New(),
		PlatformUserID: platformUserID,
		Direction:      DirectionInbound,
		Intent:         intent,
		Content:        content,
		CreatedAt:      time.Now(),
	}
}

// NewOutboundMessage records a reply sent to a user.
func NewOutboundMessage(platformUserID, content string) *Message {
	return &Message{
		ID:             uuid.New(),
		PlatformUserID: platformUserID,
		Direction:      DirectionOutbound,
		Content:        content,
		CreatedAt:      time.Now(),
	}
}

// MessageRepository defines the interface for chat message persistence
type MessageRepository interface {
	// Save persists a message
	Save(ctx context.Context, msg *Message) error

	// FindByUser returns the most recent messages for a user, newest first
	FindByUser(ctx context.Context, platformUserID string, limit int) ([]Message, error)

	// CountSince counts messages exchanged since the given time
	CountSince(ctx context.Context, since time.Time) (int64, error)
}
