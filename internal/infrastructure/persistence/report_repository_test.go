package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradesphere/antiscam/internal/domain/report"
	"github.com/tradesphere/antiscam/internal/domain/shared"
)

func newPendingReport(t *testing.T, phone string) *report.Report {
	t.Helper()
	rec, err := report.NewReport("impersonation", "Nguyễn Văn A", phone, "", "", "mạo danh công an", "", decimal.NewFromInt(5000000))
	require.NoError(t, err)
	return rec
}

func TestGormReportRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save and find by id", func(t *testing.T) {
		repo := NewGormReportRepository(newTestDB(t))

		rec := newPendingReport(t, "0949654358")
		require.NoError(t, repo.Save(ctx, rec))

		found, err := repo.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, "0949654358", found.PhoneNumber)
		assert.Equal(t, report.ReportStatusPending, found.Status)
		assert.True(t, found.Amount.Equal(decimal.NewFromInt(5000000)))
	})

	t.Run("missing report returns not found", func(t *testing.T) {
		repo := NewGormReportRepository(newTestDB(t))

		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("find by status", func(t *testing.T) {
		repo := NewGormReportRepository(newTestDB(t))

		pending := newPendingReport(t, "0911111111")
		verified := newPendingReport(t, "0922222222")
		require.NoError(t, verified.Verify())
		require.NoError(t, repo.Save(ctx, pending))
		require.NoError(t, repo.Save(ctx, verified))

		found, err := repo.FindByStatus(ctx, report.ReportStatusPending, 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "0911111111", found[0].PhoneNumber)

		count, err := repo.CountByStatus(ctx, report.ReportStatusVerified)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("find verified since excludes old verifications", func(t *testing.T) {
		repo := NewGormReportRepository(newTestDB(t))

		recent := newPendingReport(t, "0911111111")
		require.NoError(t, recent.Verify())
		require.NoError(t, repo.Save(ctx, recent))

		old := newPendingReport(t, "0922222222")
		require.NoError(t, old.Verify())
		past := time.Now().Add(-2 * time.Hour)
		old.VerifiedAt = &past
		require.NoError(t, repo.Save(ctx, old))

		found, err := repo.FindVerifiedSince(ctx, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "0911111111", found[0].PhoneNumber)
	})
}
