package scamcheck

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SearchLog records one lookup for usage analytics.
type SearchLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Keyword     string    `gorm:"type:varchar(255);not null;index" json:"keyword"`
	Scope       string    `gorm:"type:varchar(32);not null" json:"scope"`
	Channel     string    `gorm:"type:varchar(32);not null" json:"channel"`
	ResultCount int       `gorm:"not null" json:"result_count"`
	CacheHit    bool      `gorm:"not null" json:"cache_hit"`
	DurationMs  int64     `gorm:"not null" json:"duration_ms"`
	RequesterID string    `gorm:"type:varchar(64)" json:"requester_id,omitempty"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
}

// Lookup channels.
const (
	ChannelAPI  = "api"
	ChannelZalo = "zalo"
)

// TableName returns the table name for GORM
func (SearchLog) TableName() string {
	return "scam_searches"
}

// NewSearchLog creates a search log entry. RequesterID is the platform ID
// of the user behind the lookup and stays empty for anonymous API calls.
func NewSearchLog(keyword, scope, channel, requesterID string, resultCount int, cacheHit bool, duration time.Duration) *SearchLog {
	return &SearchLog{
		ID:          uuid.New(),
		Keyword:     keyword,
		Scope:       scope,
		Channel:     channel,
		ResultCount: resultCount,
		CacheHit:    cacheHit,
		DurationMs:  duration.Milliseconds(),
		RequesterID: requesterID,
		CreatedAt:   time.Now(),
	}
}

// SearchLogRepository defines the interface for search log persistence
type SearchLogRepository interface {
	// Save persists a search log entry
	Save(ctx context.Context, log *SearchLog) error

	// FindRecent returns the most recent entries, newest first
	FindRecent(ctx context.Context, limit int) ([]SearchLog, error)

	// CountSince counts lookups since the given time
	CountSince(ctx context.Context, since time.Time) (int64, error)
}
