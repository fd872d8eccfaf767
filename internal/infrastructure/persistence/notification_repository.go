package persistence

import (
	"context"
	"time"

	"github.com/tradesphere/antiscam/internal/domain/notify"
	"gorm.io/gorm"
)

// GormNotificationRepository implements NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Save persists a notification record
func (r *GormNotificationRepository) Save(ctx context.Context, n *notify.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// SaveBatch persists a batch of notification records
func (r *GormNotificationRepository) SaveBatch(ctx context.Context, batch []*notify.Notification) error {
	if len(batch) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(batch).Error
}

// FindRecent returns the most recent records, newest first
func (r *GormNotificationRepository) FindRecent(ctx context.Context, limit int) ([]notify.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []notify.Notification
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountDeliveredSince counts delivered notifications since the given time
func (r *GormNotificationRepository) CountDeliveredSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&notify.Notification{}).
		Where("delivered = ? AND created_at >= ?", true, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormNotificationRepository implements NotificationRepository
var _ notify.NotificationRepository = (*GormNotificationRepository)(nil)
