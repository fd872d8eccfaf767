package notify

import (
	"context"

	"github.com/tradesphere/antiscam/internal/domain/chat"
	"github.com/tradesphere/antiscam/internal/domain/notify"
	"go.uber.org/zap"
)

// BroadcastService sends operator-initiated messages to followers and
// records every delivery.
type BroadcastService struct {
	users         chat.UserRepository
	dispatcher    *Dispatcher
	notifications notify.NotificationRepository
	logger        *zap.Logger
}

// NewBroadcastService creates the broadcast service.
func NewBroadcastService(
	users chat.UserRepository,
	dispatcher *Dispatcher,
	notifications notify.NotificationRepository,
	logger *zap.Logger,
) *BroadcastService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BroadcastService{
		users:         users,
		dispatcher:    dispatcher,
		notifications: notifications,
		logger:        logger,
	}
}

// Broadcast delivers title and content to followers. An empty audience
// targets every active follower; "tips" and "alert" narrow the target set
// to followers with that subscription enabled.
func (s *BroadcastService) Broadcast(ctx context.Context, title, content, audience string) (notify.BroadcastReport, error) {
	var (
		users []chat.User
		err   error
	)
	if audience == "" || audience == "all" {
		users, err = s.users.FindActive(ctx)
	} else {
		users, err = s.users.FindActiveSubscribed(ctx, audience)
	}
	if err != nil {
		return notify.BroadcastReport{}, err
	}

	message := content
	if title != "" {
		message = title + "\n\n" + content
	}

	job := notify.BroadcastJob{Title: title}
	for _, user := range users {
		job.Targets = append(job.Targets, notify.DeliveryTarget{
			RecipientID: user.PlatformUserID,
			Content:     message,
		})
	}

	s.logger.Info("broadcasting to followers",
		zap.String("title", title),
		zap.Int("recipients", len(job.Targets)))

	report := s.dispatcher.SendBroadcast(ctx, job)
	s.record(ctx, notify.KindBroadcast, title, content, report.Outcomes)
	return report, nil
}

// SendDirect delivers one message to one recipient, retrying as a normal
// delivery would.
func (s *BroadcastService) SendDirect(ctx context.Context, recipientID, content string) notify.DeliveryOutcome {
	outcome := s.dispatcher.SendOne(ctx, notify.DeliveryTarget{
		RecipientID: recipientID,
		Content:     content,
	})
	s.record(ctx, notify.KindBroadcast, "", content, []notify.DeliveryOutcome{outcome})
	return outcome
}

func (s *BroadcastService) record(ctx context.Context, kind notify.NotificationKind, title, content string, outcomes []notify.DeliveryOutcome) {
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
