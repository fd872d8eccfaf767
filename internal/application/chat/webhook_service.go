// Package chat implements the webhook pipeline for the official account:
// classifying inbound messages, answering lookups, delegating free text
// to the AI advisor and keeping the follower roster current.
package chat

import (
	"context"
	"errors"

	appscamcheck "github.com/tradesphere/antiscam/internal/application/scamcheck"
	"github.com/tradesphere/antiscam/internal/domain/chat"
	"github.com/tradesphere/antiscam/internal/domain/scamcheck"
	"github.com/tradesphere/antiscam/internal/domain/shared"
	"github.com/tradesphere/antiscam/internal/infrastructure/ai"
	"github.com/tradesphere/antiscam/internal/infrastructure/telemetry"
	"github.com/tradesphere/antiscam/internal/infrastructure/zalo"
	"go.uber.org/zap"
)

// MessageSender delivers one text message to a platform user.
type MessageSender interface {
	SendText(ctx context.Context, userID, text string) (string, error)
}

// ProfileFetcher looks a follower's profile up on the platform.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, userID string) (*zalo.Profile, error)
}

// Advisor answers free-text questions.
type Advisor interface {
	Advise(ctx context.Context, message string, history []ai.Turn) string
}

// historyTurns bounds how many prior messages feed the advisor as context.
const historyTurns = 6

// WebhookService handles official account webhook events.
type WebhookService struct {
	users    chat.UserRepository
	messages chat.MessageRepository
	search   *appscamcheck.SearchService
	advisor  Advisor
	sender   MessageSender
	profiles ProfileFetcher
	metrics  *telemetry.ServiceMetrics
	logger   *zap.Logger
}

// NewWebhookService creates the webhook service.
func NewWebhookService(
	users chat.UserRepository,
	messages chat.MessageRepository,
	search *appscamcheck.SearchService,
	advisor Advisor,
	sender MessageSender,
	profiles ProfileFetcher,
	metrics *telemetry.ServiceMetrics,
	logger *zap.Logger,
) *WebhookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookService{
		users:    users,
		messages: messages,
		search:   search,
		advisor:  advisor,
		sender:   sender,
		profiles: profiles,
		metrics:  metrics,
		logger:   logger,
	}
}

// HandleEvent dispatches one webhook event. Unknown event names are
// acknowledged without action; the platform retries events that error.
func (s *WebhookService) HandleEvent(ctx context.Context, event *zalo.WebhookEvent) error {
	switch event.EventName {
	case zalo.EventUserSendText:
		return s.handleText(ctx, event)
	case zalo.EventUserSendImage:
		return s.handleImage(ctx, event)
	case zalo.EventFollow:
		return s.handleFollow(ctx, event)
	case zalo.EventUnfollow:
		return s.handleUnfollow(ctx, event)
	default:
		s.logger.Debug("ignoring webhook event", zap.String("event", event.EventName))
		return nil
	}
}

func (s *WebhookService) handleText(ctx context.Context, event *zalo.WebhookEvent) error {
	userID := event.UserID()
	text := event.Message.Text
	if userID == "" || text == "" {
		return nil
	}

	intent := chat.Classify(text)

	// History must not include the message being handled.
	var history []ai.Turn
	if intent == chat.IntentFreeText {
		history = s.recentHistory(ctx, userID)
	}
	s.saveMessage(ctx, chat.NewInboundMessage(userID, text, intent))

	var reply string
	switch {
	case intent == chat.IntentCommand:
		reply = HelpMessage
	case intent.IsLookup():
		keyword := chat.LookupKeyword(text)
		result, _, err := s.search.Search(ctx, keyword, scamcheck.ScopeAll, scamcheck.ChannelZalo, userID)
		if err != nil {
			return err
		}
		reply = RenderSearchResult(result)
	default:
		reply = s.advisor.Advise(ctx, text, history)
	}

	s.metrics.RecordIntent(ctx, string(intent))

	if err := s.reply(ctx, userID, reply); err != nil {
		return err
	}
	s.saveMessage(ctx, chat.NewOutboundMessage(userID, reply))
	return nil
}

func (s *WebhookService) handleImage(ctx context.Context, event *zalo.WebhookEvent) error {
	userID := event.UserID()
	if userID == "" {
		return nil
	}

	s.saveMessage(ctx, chat.NewInboundMessage(userID, "[Image]", chat.IntentFreeText))

	if err := s.reply(ctx, userID, ImageReply); err != nil {
		return err
	}
	s.saveMessage(ctx, chat.NewOutboundMessage(userID, ImageReply))
	return nil
}

func (s *WebhookService) handleFollow(ctx context.Context, event *zalo.WebhookEvent) error {
	userID := event.UserID()
	if userID == "" {
		return nil
	}

	var displayName, avatarURL string
	if profile, err := s.profiles.GetProfile(ctx, userID); err != nil {
		// The roster entry matters more than the profile details.
		s.logger.Warn("profile fetch failed", zap.String("user_id", userID), zap.Error(err))
	} else {
		displayName = profile.DisplayName
		avatarURL = profile.Avatar
	}

	user, err := s.users.FindByPlatformID(ctx, userID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		user = chat.NewUser(userID, displayName, avatarURL)
	case err != nil:
		return err
	default:
		user.Refollow(displayName, avatarURL)
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	if err := s.reply(ctx, userID, WelcomeMessage); err != nil {
		return err
	}
	s.saveMessage(ctx, chat.NewOutboundMessage(userID, WelcomeMessage))
	return nil
}

func (s *WebhookService) handleUnfollow(ctx context.Context, event *zalo.WebhookEvent) error {
	userID := event.UserID()
	if userID == "" {
		return nil
	}

	user, err := s.users.FindByPlatformID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	user.Unfollow()
	return s.users.Save(ctx, user)
}

func (s *WebhookService) reply(ctx context.Context, userID, text string) error {
	_, err := s.sender.SendText(ctx, userID, text)
	s.metrics.RecordDelivery(ctx, err == nil)
	if err != nil {
		s.logger.Warn("reply delivery failed", zap.String("user_id", userID), zap.Error(err))
	}
	return err
}

// recentHistory converts the latest conversation turns into advisor
// context, oldest first.
func (s *WebhookService) recentHistory(ctx context.Context, userID string) []ai.Turn {
	recent, err := s.messages.FindByUser(ctx, userID, historyTurns)
	if err != nil {
		s.logger.Debug("history fetch failed", zap.Error(err))
		return nil
	}

	turns := make([]ai.Turn, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		role := "assistant"
		if recent[i].Direction == chat.DirectionInbound {
			role = "user"
		}
		turns = append(turns, ai.Turn{Role: role, Content: recent[i].Content})
	}
	return turns
}

func (s *WebhookService) saveMessage(ctx context.Context, msg *chat.Message) {
	if err := s.messages.Save(ctx, msg); err != nil {
		s.logger.Warn("message log write failed", zap.Error(err))
	}
}
