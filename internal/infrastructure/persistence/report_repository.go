package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tradesphere/antiscam/internal/domain/report"
	"github.com/tradesphere/antiscam/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// FindByID finds a report by ID
func (r *GormReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	var rec report.Report
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindByStatus returns reports in the given status, newest first
func (r *GormReportRepository) FindByStatus(ctx context.Context, status report.ReportStatus, limit int) ([]report.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []report.Report
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindVerifiedSince returns reports verified since the given time
func (r *GormReportRepository) FindVerifiedSince(ctx context.Context, since time.Time) ([]report.Report, error) {
	var records []report.Report
	if err := r.db.WithContext(ctx).
		Where("status = ? AND verified_at >= ?", report.ReportStatusVerified, since).
		Order("verified_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates a report
func (r *GormReportRepository) Save(ctx context.Context, rec *report.Report) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// CountByStatus counts reports in the given status
func (r *GormReportRepository) CountByStatus(ctx context.Context, status report.ReportStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&report.Report{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormReportRepository implements report.Repository
var _ report.Repository = (*GormReportRepository)(nil)
