package notify

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
	"github.com/tradesphere/antiscam/internal/domain/chat"
	"github.com/tradesphere/antiscam/internal/domain/notify"
	"github.com/tradesphere/antiscam/internal/domain/report"
)

type fakeUsers struct {
	tips   []chat.User
	alerts []chat.User
}

func (f *fakeUsers) FindByPlatformID(ctx context.Context, id string) (*chat.User, error) {
	return nil, nil
}
func (f *fakeUsers) FindActive(ctx context.Context) ([]chat.User, error) {
	return append(append([]chat.User{}, f.tips...), f.alerts...), nil
}
func (f *fakeUsers) FindActiveSubscribed(ctx context.Context, subscription string) ([]chat.User, error) {
	if subscription == "tips" {
		return f.tips, nil
	}
	return f.alerts, nil
}
func (f *fakeUsers) Save(ctx context.Context, user *chat.User) error { return nil }
func (f *fakeUsers) CountActive(ctx context.Context) (int64, error)  { return 0, nil }

type fakeReports struct {
	verified []report.Report
}

func (f *fakeReports) FindByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	return nil, nil
}
func (f *fakeReports) FindByStatus(ctx context.Context, status report.ReportStatus, limit int) ([]report.Report, error) {
	return nil, nil
}
func (f *fakeReports) FindVerifiedSince(ctx context.Context, since time.Time) ([]report.Report, error) {
	return f.verified, nil
}
func (f *fakeReports) Save(ctx context.Context, r *report.Report) error { return nil }
func (f *fakeReports) CountByStatus(ctx context.Context, status report.ReportStatus) (int64, error) {
	return int64(len(f.verified)), nil
}

type recordingNotifications struct {
	saved []notify.Notification
}

func (r *recordingNotifications) Save(ctx context.Context, n *notify.Notification) error {
	r.saved = append(r.saved, *n)
	return nil
}
func (r *recordingNotifications) SaveBatch(ctx context.Context, batch []*notify.Notification) error {
	for _, n := range batch {
		r.saved = append(r.saved, *n)
	}
	return nil
}
func (r *recordingNotifications) FindRecent(ctx context.Context, limit int) ([]notify.Notification, error) {
	return r.saved, nil
}
func (r *recordingNotifications) CountDeliveredSince(ctx context.Context, since time.Time) (int64, error) {
	return 0, nil
}

func verifiedReport(t *testing.T, phone string, amount int64) report.Report {
	t.Helper()
	rec, err := report.NewReport("impersonation", "X", phone, "", "", "", "", decimal.NewFromInt(amount))
	require.NoError(t, err)
	require.NoError(t, rec.Verify())
	return *rec
}

type schedulerFixture struct {
	scheduler     *TipScheduler
	sender        *scriptedSender
	users         *fakeUsers
	reports       *fakeReports
	notifications *recordingNotifications
}

func newSchedulerFixture(t *testing.T, now time.Time) *schedulerFixture {
	t.Helper()

	sender := newScriptedSender()
	dispatcher, _ := newTestDispatcher(sender)
	users := &fakeUsers{
		tips:   []chat.User{*chat.NewUser("tip-1", "A", ""), *chat.NewUser("tip-2", "B", "")},
		alerts: []chat.User{*chat.NewUser("alert-1", "C", "")},
	}
	reports := &fakeReports{}
	notifications := &recordingNotifications{}

	scheduler := NewTipScheduler(users, reports, dispatcher, notifications, 9, nil)
	scheduler.now = func() time.Time { return now }

	return &schedulerFixture{
		scheduler:     scheduler,
		sender:        sender,
		users:         users,
		reports:       reports,
		notifications: notifications,
	}
}

func TestTipSchedulerDailyTips(t *testing.T) {
	t.Run("sends inside the morning window", func(t *testing.T) {
		f := newSchedulerFixture(t, time.Date(2026, 8, 12, 9, 5, 0, 0, time.UTC))

		f.scheduler.Tick(context.Background())

		assert.Equal(t, 1, f.sender.calls["tip-1"])
		assert.Equal(t, 1, f.sender.calls["tip-2"])
		assert.Zero(t, f.sender.calls["alert-1"], "no verified reports, so no alerts")

		require.Len(t, f.notifications.saved, 2)
		assert.Equal(t, notify.KindDailyTip, f.notifications.saved[0].Kind)
		assert.Equal(t, TipOfDay(12), f.notifications.saved[0].Content)
	})

	t.Run("skips outside the window", func(t *testing.T) {
		for _, now := range []time.Time{
			time.Date(2026, 8, 12, 9, 45, 0, 0, time.UTC),
			time.Date(2026, 8, 12, 14, 5, 0, 0, time.UTC),
		} {
			f := newSchedulerFixture(t, now)
			f.scheduler.Tick(context.Background())
			assert.Empty(t, f.sender.calls)
		}
	})

	t.Run("tip rotates by day of month", func(t *testing.T) {
		assert.Equal(t, dailyTips[2], TipOfDay(2))
		assert.Equal(t, dailyTips[2], TipOfDay(12))
		assert.Equal(t, dailyTips[0], TipOfDay(30))
	})
}

func TestTipSchedulerReportAlerts(t *testing.T) {
	t.Run("alerts subscribed followers about fresh reports", func(t *testing.T) {
		f := newSchedulerFixture(t, time.Date(2026, 8, 12, 14, 5, 0, 0, time.UTC))
		f.reports.verified = []report.Report{
			verifiedReport(t, "0911111111", 5000000),
			verifiedReport(t, "0922222222", 0),
		}

		f.scheduler.Tick(context.Background())

		assert.Equal(t, 1, f.sender.calls["alert-1"])
		assert.Zero(t, f.sender.calls["tip-1"], "outside the tip window")

		require.Len(t, f.notifications.saved, 1)
		saved := f.notifications.saved[0]
		assert.Equal(t, notify.KindReportAlert, saved.Kind)
		assert.Contains(t, saved.Content, "Có 2 trường hợp")
		assert.Contains(t, saved.Content, "0911111111")
		assert.Contains(t, saved.Content, "5000000 VNĐ")
	})

	t.Run("long report lists are truncated to three", func(t *testing.T) {
		msg := renderReportAlert([]report.Report{
			verifiedReport(t, "0911111111", 0),
			verifiedReport(t, "0922222222", 0),
			verifiedReport(t, "0933333333", 0),
			verifiedReport(t, "0944444444", 0),
			verifiedReport(t, "0955555555", 0),
		})

		assert.Contains(t, msg, "Có 5 trường hợp")
		assert.Contains(t, msg, "0933333333")
		assert.NotContains(t, msg, "0944444444")
		assert.Contains(t, msg, "... và 2 trường hợp khác.")
	})

	t.Run("bank-only report uses the account as subject", func(t *testing.T) {
		rec, err := report.NewReport("fake-shop", "X", "", "19036512345", "TCB", "", "", decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, rec.Verify())

		msg := renderReportAlert([]report.Report{*rec})
		assert.Contains(t, msg, "fake-shop: 19036512345")
	})
}
