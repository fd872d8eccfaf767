package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is a chat platform follower of the official account.
type User struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	PlatformUserID  string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"platform_user_id"`
	DisplayName     string     `gorm:"type:varchar(200)" json:"display_name"`
	AvatarURL       string     `gorm:"type:varchar(500)" json:"avatar_url,omitempty"`
	IsActive        bool       `gorm:"not null;default:true" json:"is_active"`
	SubscribedTips  bool       `gorm:"not null;default:true" json:"subscribed_tips"`
	SubscribedAlert bool       `gorm:"not null;default:true" json:"subscribed_alert"`
	FollowedAt      time.Time  `gorm:"not null" json:"followed_at"`
	UnfollowedAt    *time.Time `json:"unfollowed_at,omitempty"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "zalo_users"
}

// NewUser creates an active follower record.
func NewUser(platformUserID, displayName, avatarURL string) *User {
	now := time.Now()
	return &User{
		ID:              uuid.New(),
		PlatformUserID:  platformUserID,
		DisplayName:     displayName,
		AvatarURL:       avatarURL,
		IsActive:        true,
		SubscribedTips:  true,
		SubscribedAlert: true,
		FollowedAt:      now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Refollow reactivates a user who followed the account again.
func (u *User) Refollow(displayName, avatarURL string) {
	u.IsActive = true
	u.UnfollowedAt = nil
	u.FollowedAt = time.Now()
	if displayName != "" {
		u.DisplayName = displayName
	}
	if avatarURL != "" {
		u.AvatarURL = avatarURL
	}
	u.UpdatedAt = time.Now()
}

// Unfollow deactivates the user. Subscription flags are kept so a refollow
// restores the previous preferences.
func (u *User) Unfollow() {
	now := time.Now()
	u.IsActive = false
	u.UnfollowedAt = &now
	u.UpdatedAt = now
}

// UserRepository defines the interface for chat user persistence
type UserRepository interface {
	// FindByPlatformID finds a user by the platform-assigned ID
	FindByPlatformID(ctx context.Context, platformUserID string) (*User, error)

	// FindActive returns all active followers
	FindActive(ctx context.Context) ([]User, error)

	// FindActiveSubscribed returns active followers with the given
	// subscription enabled ("tips" or "alert")
	FindActiveSubscribed(ctx context.Context, subscription string) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// CountActive counts active followers
	CountActive(ctx context.Context) (int64, error)
}
