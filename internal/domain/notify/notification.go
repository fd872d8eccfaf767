package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NotificationKind distinguishes the scheduled and ad-hoc broadcast types.
type NotificationKind string

const (
	KindDailyTip    NotificationKind = "DAILY_TIP"
	KindReportAlert NotificationKind = "REPORT_ALERT"
	KindBroadcast   NotificationKind = "BROADCAST"
)

// Notification records one delivered message for auditing.
type Notification struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Kind        NotificationKind `gorm:"type:varchar(32);not null;index" json:"kind"`
	RecipientID string           `gorm:"type:varchar(64);not null;index" json:"recipient_id"`
	Title       string           `gorm:"type:varchar(255)" json:"title"`
	Content     string           `gorm:"type:text;not null" json:"content"`
	Delivered   bool             `gorm:"not null" json:"delivered"`
	Attempts    int              `gorm:"not null" json:"attempts"`
	ErrorReason string           `gorm:"type:varchar(500)" json:"error_reason,omitempty"`
	CreatedAt   time.Time        `gorm:"not null;index" json:"created_at"`
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification records the outcome of one delivery.
func NewNotification(kind NotificationKind, title string, outcome DeliveryOutcome, content string) *Notification {
	return &Notification{
		ID:          uuid.New(),
		Kind:        kind,
		RecipientID: outcome.RecipientID,
		Title:       title,
		Content:     content,
		Delivered:   outcome.Succeeded(),
		Attempts:    outcome.Attempts,
		ErrorReason: outcome.ErrorReason,
		CreatedAt:   time.Now(),
	}
}

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// Save persists a notification record
	Save(ctx context.Context, n *Notification) error

	// SaveBatch persists a batch of notification records
	SaveBatch(ctx context.Context, batch []*Notification) error

	// FindRecent returns the most recent records, newest first
	FindRecent(ctx context.Context, limit int) ([]Notification, error)

	// CountDeliveredSince counts delivered notifications since the given time
	CountDeliveredSince(ctx context.Context, since time.Time) (int64, error)
}
