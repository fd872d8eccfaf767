package persistence

import (
	"context"
	"time"

	"github.com/tradesphere/antiscam/internal/domain/scamcheck"
	"gorm.io/gorm"
)

// GormSearchLogRepository implements SearchLogRepository using GORM
type GormSearchLogRepository struct {
	db *gorm.DB
}

// NewGormSearchLogRepository creates a new GormSearchLogRepository
func NewGormSearchLogRepository(db *gorm.DB) *GormSearchLogRepository {
	return &GormSearchLogRepository{db: db}
}

// Save persists a search log entry
func (r *GormSearchLogRepository) Save(ctx context.Context, log *scamcheck.SearchLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

// FindRecent returns the most recent entries, newest first
func (r *GormSearchLogRepository) FindRecent(ctx context.Context, limit int) ([]scamcheck.SearchLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []scamcheck.SearchLog
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// CountSince counts lookups since the given time
func (r *GormSearchLogRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&scamcheck.SearchLog{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormSearchLogRepository implements SearchLogRepository
var _ scamcheck.SearchLogRepository = (*GormSearchLogRepository)(nil)
