package persistence

import (
	"context"
	"errors"

	"github.com/tradesphere/antiscam/internal/domain/chat"
	"github.com/tradesphere/antiscam/internal/domain/shared"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByPlatformID finds a user by the platform-assigned ID
func (r *GormUserRepository) FindByPlatformID(ctx context.Context, platformUserID string) (*chat.User, error) {
	var user chat.User
	if err := r.db.WithContext(ctx).
		Where("platform_user_id = ?", platformUserID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindActive returns all active followers
func (r *GormUserRepository) FindActive(ctx context.Context) ([]chat.User, error) {
	var users []chat.User
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("followed_at ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindActiveSubscribed returns active followers with the given subscription
// enabled ("tips" or "alert")
func (r *GormUserRepository) FindActiveSubscribed(ctx context.Context, subscription string) ([]chat.User, error) {
	query := r.db.WithContext(ctx).Where("is_active = ?", true)

	switch subscription {
	case "tips":
		query = query.Where("subscribed_tips = ?", true)
	case "alert":
		query = query.Where("subscribed_alert = ?", true)
	default:
		return nil, shared.NewDomainError("INVALID_SUBSCRIPTION", "Unknown subscription kind: "+subscription)
	}

	var users []chat.User
	if err := query.Order("followed_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *chat.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// CountActive counts active followers
func (r *GormUserRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&chat.User{}).
		Where("is_active = ?", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormUserRepository implements UserRepository
var _ chat.UserRepository = (*GormUserRepository)(nil)
