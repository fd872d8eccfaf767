package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradesphere/antiscam/internal/domain/shared"
)

// ErrInvalidStatus is returned for status values outside the
// pending/verified/rejected set.
var ErrInvalidStatus = shared.NewDomainError("INVALID_STATUS", "Unknown report status")

// ReportStatus represents the review state of a community report
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "PENDING"
	ReportStatusVerified ReportStatus = "VERIFIED"
	ReportStatusRejected ReportStatus = "REJECTED"
)

// IsValid checks if the status is a valid ReportStatus
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusPending, ReportStatusVerified, ReportStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ReportStatus
func (s ReportStatus) String() string {
	return string(s)
}

// Report is a community-submitted scam report awaiting moderation.
type Report struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ScamType      string          `gorm:"type:varchar(100);not null" json:"scam_type"`
	ScammerName   string          `gorm:"type:varchar(200)" json:"scammer_name"`
	PhoneNumber   string          `gorm:"type:varchar(20);index" json:"phone_number,omitempty"`
	BankAccount   string          `gorm:"type:varchar(32);index" json:"bank_account,omitempty"`
	BankName      string          `gorm:"type:varchar(100)" json:"bank_name,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,0);not null;default:0" json:"amount"`
	Description   string          `gorm:"type:text" json:"description"`
	ReporterPhone string          `gorm:"type:varchar(20)" json:"reporter_phone,omitempty"`
	Status        ReportStatus    `gorm:"type:varchar(16);not null;default:'PENDING';index" json:"status"`
	VerifiedAt    *time.Time      `json:"verified_at,omitempty"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for GORM
func (Report) TableName() string {
	return "reports"
}

// NewReport creates a pending report. A report needs at least one of a
// phone number or bank account to be actionable.
func NewReport(scamType, scammerName, phone, bankAccount, bankName, description, reporterPhone string, amount decimal.Decimal) (*Report, error) {
	if scamType == "" {
		return nil, shared.NewDomainError("INVALID_SCAM_TYPE", "Scam type cannot be empty")
	}
	if phone == "" && bankAccount == "" {
		return nil, shared.NewDomainError("INVALID_REPORT", "Report needs a phone number or bank account")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}

	now := time.Now()
	return &Report{
		ID:            uuid.New(),
		ScamType:      scamType,
		ScammerName:   scammerName,
		PhoneNumber:   phone,
		BankAccount:   bankAccount,
		BankName:      bankName,
		Amount:        amount,
		Description:   description,
		ReporterPhone: reporterPhone,
		Status:        ReportStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Verify marks the report as reviewed and confirmed.
func (r *Report) Verify() error {
	if r.Status != ReportStatusPending {
		return shared.ErrInvalidState
	}
	now := time.Now()
	r.Status = ReportStatusVerified
	r.VerifiedAt = &now
	r.UpdatedAt = now
	return nil
}

// Reject marks the report as reviewed and dismissed.
func (r *Report) Reject() error {
	if r.Status != ReportStatusPending {
		return shared.ErrInvalidState
	}
	r.Status = ReportStatusRejected
	r.UpdatedAt = time.Now()
	return nil
}

// Repository defines the interface for report persistence
type Repository interface {
	// FindByID finds a report by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Report, error)

	// FindByStatus returns reports in the given status, newest first
	FindByStatus(ctx context.Context, status ReportStatus, limit int) ([]Report, error)

	// FindVerifiedSince returns reports verified since the given time
	FindVerifiedSince(ctx context.Context, since time.Time) ([]Report, error)

	// Save creates or updates a report
	Save(ctx context.Context, r *Report) error

	// CountByStatus counts reports in the given status
	CountByStatus(ctx context.Context, status ReportStatus) (int64, error)
}
