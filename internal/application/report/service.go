// Package report implements submission and moderation of community scam
// reports.
package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tradesphere/antiscam/internal/domain/report"
)

const defaultListLimit = 50

// SubmitInput carries a new community report.
type SubmitInput struct {
	ScamType      string
	ScammerName   string
	PhoneNumber   string
	BankAccount   string
	BankName      string
	Description   string
	ReporterPhone string
	Amount        decimal.Decimal
}

// Stats summarizes the moderation queue.
type Stats struct {
	Pending  int64 `json:"pending"`
	Verified int64 `json:"verified"`
	Rejected int64 `json:"rejected"`
}

// Service handles report intake and moderation.
type Service struct {
	reports report.Repository
	logger  *zap.Logger
}

// NewService creates the report service.
func NewService(reports report.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{reports: reports, logger: logger}
}

// Submit stores a new pending report.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*report.Report, error) {
	rec, err := report.NewReport(
		input.ScamType,
		input.ScammerName,
		input.PhoneNumber,
		input.BankAccount,
		input.BankName,
		input.Description,
		input.ReporterPhone,
		input.Amount,
	)
	if err != nil {
		return nil, err
	}
	if err := s.reports.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("community report submitted",
		zap.String("report_id", rec.ID.String()),
		zap.String("scam_type", rec.ScamType))
	return rec, nil
}

// Get returns one report by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	return s.reports.FindByID(ctx, id)
}

// List returns reports in the given status, newest first. An invalid
// status is rejected before touching the store.
func (s *Service) List(ctx context.Context, status report.ReportStatus, limit int) ([]report.Report, error) {
	if !status.IsValid() {
		return nil, report.ErrInvalidStatus
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.reports.FindByStatus(ctx, status, limit)
}

// Verify confirms a pending report.
func (s *Service) Verify(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	return s.moderate(ctx, id, (*report.Report).Verify)
}

// Reject dismisses a pending report.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	return s.moderate(ctx, id, (*report.Report).Reject)
}

func (s *Service) moderate(ctx context.Context, id uuid.UUID, transition func(*report.Report) error) (*report.Report, error) {
	rec, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := transition(rec); err != nil {
		return nil, err
	}
	if err := s.reports.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("report moderated",
		zap.String("report_id", rec.ID.String()),
		zap.String("status", rec.Status.String()))
	return rec, nil
}

// GetStats counts reports per moderation status.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats
	var err error

	if stats.Pending, err = s.reports.CountByStatus(ctx, report.ReportStatusPending); err != nil {
		return Stats{}, err
	}
	if stats.Verified, err = s.reports.CountByStatus(ctx, report.ReportStatusVerified); err != nil {
		return Stats{}, err
	}
	if stats.Rejected, err = s.reports.CountByStatus(ctx, report.ReportStatusRejected); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
