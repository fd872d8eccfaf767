package persistence

import (
	"context"
	"time"

	"github.com/tradesphere/antiscam/internal/domain/chat"
	"gorm.io/gorm"
)

// GormMessageRepository implements MessageRepository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Save persists a message
func (r *GormMessageRepository) Save(ctx context.Context, msg *chat.Message) error {
	return r.db.WithContext(ctx).Save(msg).Error
}

// FindByUser returns the most recent messages for a user, newest first
func (r *GormMessageRepository) FindByUser(ctx context.Context, platformUserID string, limit int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = 20
	}
	var messages []chat.Message
	if err := r.db.WithContext(ctx).
		Where("platform_user_id = ?", platformUserID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// CountSince counts messages exchanged since the given time
func (r *GormMessageRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormMessageRepository implements MessageRepository
var _ chat.MessageRepository = (*GormMessageRepository)(nil)
