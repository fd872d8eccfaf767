package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tradesphere/antiscam/internal/domain/chat"
	"github.com/tradesphere/antiscam/internal/domain/notify"
	"github.com/tradesphere/antiscam/internal/domain/report"
	"go.uber.org/zap"
)

// dailyTips rotate by day of month. Ten entries keep the cycle out of
// sync with weekdays so followers do not see the same tip each Monday.
var dailyTips = []string{
	"Không bao giờ chia sẻ mã OTP với bất kỳ ai, kể cả nhân viên ngân hàng.",
	"Kiểm tra kỹ số điện thoại và tên người gửi trước khi chuyển tiền.",
	"Cảnh giác với các tin nhắn yêu cầu cập nhật thông tin tài khoản ngân hàng.",
	"Không click vào link lạ trong tin nhắn SMS hoặc email.",
	"Xác minh nguồn gốc của người gọi trước khi cung cấp thông tin cá nhân.",
	"Tuyệt đối không chuyển tiền cho người lạ qua mạng xã hội.",
	"Kiểm tra thông tin người bán trên các nền tảng thương mại điện tử.",
	"Cảnh giác với các chương trình đầu tư hứa hẹn lợi nhuận cao bất thường.",
	"Không tải ứng dụng từ nguồn không rõ ràng.",
	"Báo cáo ngay cho cơ quan chức năng khi phát hiện dấu hiệu lừa đảo.",
}

// tipWindowMinutes is how long past the tip hour the send window stays
// open. The scheduler ticks hourly, so the window only needs to admit one
// tick.
const tipWindowMinutes = 30

// alertTopReports bounds how many reports one alert message details.
const alertTopReports = 3

// TipScheduler runs the periodic follower notifications: a daily
// prevention tip in the morning and alerts for freshly verified reports.
type TipScheduler struct {
	users         chat.UserRepository
	reports       report.Repository
	dispatcher    *Dispatcher
	notifications notify.NotificationRepository
	tipHour       int
	interval      time.Duration
	now           func() time.Time
	logger        *zap.Logger
}

// NewTipScheduler creates the scheduler. tipHour is the local hour of day
// the daily tip goes out.
func NewTipScheduler(
	users chat.UserRepository,
	reports report.Repository,
	dispatcher *Dispatcher,
	notifications notify.NotificationRepository,
	tipHour int,
	logger *zap.Logger,
) *TipScheduler {
	if tipHour < 0 || tipHour > 23 {
		tipHour = 9
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TipScheduler{
		users:         users,
		reports:       reports,
		dispatcher:    dispatcher,
		notifications: notifications,
		tipHour:       tipHour,
		interval:      time.Hour,
		now:           time.Now,
		logger:        logger,
	}
}

// Run ticks hourly until the context is cancelled.
func (s *TipScheduler) Run(ctx context.Context) {
	s.logger.Info("notification scheduler started", zap.Int("tip_hour", s.tipHour))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("notification scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one scheduler pass: the daily tip when inside its window, and
// verified-report alerts regardless of the hour.
func (s *TipScheduler) Tick(ctx context.Context) {
	now := s.now()

	if now.Hour() == s.tipHour && now.Minute() < tipWindowMinutes {
		if err := s.sendDailyTips(ctx, now); err != nil {
			s.logger.Error("daily tip run failed", zap.Error(err))
		}
	}

	if err := s.sendReportAlerts(ctx, now); err != nil {
		s.logger.Error("report alert run failed", zap.Error(err))
	}
}

// TipOfDay returns the tip for a given day of month.
func TipOfDay(day int) string {
	return dailyTips[day%len(dailyTips)]
}

func (s *TipScheduler) sendDailyTips(ctx context.Context, now time.Time) error {
	tip := TipOfDay(now.Day())
	message := fmt.Sprintf("🛡️ Mẹo phòng chống lừa đảo:\n\n%s\n\n💡 Bạn có thể tắt thông báo này bằng cách gửi 'STOP'", tip)

	users, err := s.users.FindActiveSubscribed(ctx, "tips")
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return nil
	}

	job := notify.BroadcastJob{Title: "Mẹo phòng chống lừa đảo"}
	for _, user := range users {
		job.Targets = append(job.Targets, notify.DeliveryTarget{
			RecipientID: user.PlatformUserID,
			Content:     message,
		})
	}

	s.logger.Info("sending daily tips", zap.Int("recipients", len(job.Targets)))
	rep := s.dispatcher.SendBroadcast(ctx, job)
	s.record(ctx, notify.KindDailyTip, job.Title, tip, rep.Outcomes)
	return nil
}

func (s *TipScheduler) sendReportAlerts(ctx context.Context, now time.Time) error {
	verified, err := s.reports.FindVerifiedSince(ctx, now.Add(-time.Hour))
	if err != nil {
		return err
	}
	if len(verified) == 0 {
		return nil
	}

	message := renderReportAlert(verified)

	users, err := s.users.FindActiveSubscribed(ctx, "alert")
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return nil
	}

	job := notify.BroadcastJob{Title: "Cảnh báo lừa đảo mới"}
	for _, user := range users {
		job.Targets = append(job.Targets, notify.DeliveryTarget{
			RecipientID: user.PlatformUserID,
			Content:     message,
		})
	}

	s.logger.Info("sending report alerts",
		zap.Int("reports", len(verified)),
		zap.Int("recipients", len(job.Targets)))
	rep := s.dispatcher.SendBroadcast(ctx, job)
	s.record(ctx, notify.KindReportAlert, job.Title, message, rep.Outcomes)
	return nil
}

func renderReportAlert(verified []report.Report) string {
	var sb strings.Builder
	sb.WriteString("⚠️ Cảnh báo lừa đảo mới!\n\n")
	fmt.Fprintf(&sb, "📊 Có %d trường hợp lừa đảo mới được xác minh:\n\n", len(verified))

	shown := verified
	if len(shown) > alertTopReports {
		shown = shown[:alertTopReports]
	}
	for _, rec := range shown {
		subject := rec.PhoneNumber
		if subject == "" {
			subject = rec.BankAccount
		}
		fmt.Fprintf(&sb, "• %s: %s\n", rec.ScamType, subject)
		if rec.Amount.IsPositive() {
			fmt.Fprintf(&sb, "  Số tiền: %s VNĐ\n", rec.Amount.StringFixed(0))
		}
	}
	if len(verified) > alertTopReports {
		fmt.Fprintf(&sb, "\n... và %d trường hợp khác.\n", len(verified)-alertTopReports)
	}

	sb.WriteString("\n⚠️ Hãy cảnh giác và kiểm tra kỹ trước khi giao dịch!")
	return sb.String()
}

func (s *TipScheduler) record(ctx context.Context, kind notify.NotificationKind, title, content string, outcomes []notify.DeliveryOutcome) {
	if s.notifications == nil {
		return
	}
	batch := make([]*notify.Notification, 0, len(outcomes))
	for _, outcome := range outcomes {
		batch = append(batch, notify.NewNotification(kind, title, outcome, content))
	}
	if err := s.notifications.SaveBatch(ctx, batch); err != nil {
		s.logger.Warn("notification audit write failed", zap.Error(err))
	}
}
