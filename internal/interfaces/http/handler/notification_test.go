package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tradesphere/antiscam/internal/application/notify"
	"github.com/tradesphere/antiscam/internal/domain/chat"
	"github.com/tradesphere/antiscam/internal/infrastructure/zalo"
)

func newBroadcastFixture(users *stubUserRepo, sender *stubSender) *NotificationHandler {
	dispatcher := notify.NewDispatcher(sender, notify.DispatcherConfig{
		MaxRetries:        1,
		RetryBackoff:      time.Millisecond,
		BroadcastInterval: time.Millisecond,
	}, nil, nil)
	return NewNotificationHandler(notify.NewBroadcastService(users, dispatcher, nil, nil))
}

func TestNotificationBroadcast(t *testing.T) {
	t.Run("reaches every active follower", func(t *testing.T) {
		users := &stubUserRepo{active: []chat.User{
			{PlatformUserID: "u1", IsActive: true},
			{PlatformUserID: "u2", IsActive: true},
		}}
		sender := &stubSender{}
		engine := newTestEngine(newBroadcastFixture(users, sender))

		rec := doRequest(t, engine, http.MethodPost, "/api/v1/notifications/broadcast",
			`{"title":"Cảnh báo","message":"Số 0911222333 vừa bị tố cáo","audience":"all"}`, nil)
		requireStatus(t, rec, http.StatusOK)

		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, float64(2), data["recipients"])
		assert.Equal(t, float64(2), data["succeeded"])
		assert.Equal(t, float64(0), data["failed"])
		assert.ElementsMatch(t, []string{"u1", "u2"}, sender.sent)
	})

	t.Run("permanent gateway failures are tallied", func(t *testing.T) {
		users := &stubUserRepo{active: []chat.User{{PlatformUserID: "u1", IsActive: true}}}
		sender := &stubSender{err: &zalo.GatewayError{Code: zalo.CodeUserBlocked, Message: "blocked"}}
		engine := newTestEngine(newBroadcastFixture(users, sender))

		rec := doRequest(t, engine, http.MethodPost, "/api/v1/notifications/broadcast",
			`{"message":"tin nhắn"}`, nil)
		requireStatus(t, rec, http.StatusOK)

		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, float64(1), data["recipients"])
		assert.Equal(t, float64(0), data["succeeded"])
		assert.Equal(t, float64(1), data["failed"])
	})

	t.Run("missing message fails validation", func(t *testing.T) {
		engine := newTestEngine(newBroadcastFixture(&stubUserRepo{}, &stubSender{}))
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/notifications/broadcast",
			`{"title":"only a title"}`, nil)
		requireStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("unknown audience fails validation", func(t *testing.T) {
		engine := newTestEngine(newBroadcastFixture(&stubUserRepo{}, &stubSender{}))
		rec := doRequest(t, engine, http.MethodPost, "/api/v1/notifications/broadcast",
			`{"message":"hi","audience":"everyone"}`, nil)
		requireStatus(t, rec, http.StatusBadRequest)
	})
}
