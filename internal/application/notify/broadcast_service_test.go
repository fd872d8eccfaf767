package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradesphere/antiscam/internal/domain/chat"
	"github.com/tradesphere/antiscam/internal/domain/notify"
	"github.com/tradesphere/antiscam/internal/infrastructure/zalo"
)

func TestBroadcast(t *testing.T) {
	ctx := context.Background()

	users := &fakeUsers{
		tips:   []chat.User{*chat.NewUser("u1", "A", "")},
		alerts: []chat.User{*chat.NewUser("u2", "B", "")},
	}

	t.Run("reaches every active follower", func(t *testing.T) {
		sender := newScriptedSender()
		dispatcher, _ := newTestDispatcher(sender)
		audit := &recordingNotifications{}
		service := NewBroadcastService(users, dispatcher, audit, nil)

		report, err := service.Broadcast(ctx, "Thông báo", "Nội dung cảnh báo", "")
		require.NoError(t, err)

		assert.Equal(t, 2, report.Succeeded)
		assert.Equal(t, 0, report.Failed)
		assert.Equal(t, 1, sender.calls["u1"])
		assert.Equal(t, 1, sender.calls["u2"])

		require.Len(t, audit.saved, 2)
		assert.Equal(t, notify.KindBroadcast, audit.saved[0].Kind)
		assert.Equal(t, "Thông báo", audit.saved[0].Title)
		assert.True(t, audit.saved[0].Delivered)
	})

	t.Run("empty title sends the content alone", func(t *testing.T) {
		sender := newScriptedSender()
		dispatcher, _ := newTestDispatcher(sender)
		service := NewBroadcastService(users, dispatcher, nil, nil)

		report, err := service.Broadcast(ctx, "", "chỉ nội dung", "all")
		require.NoError(t, err)
		assert.Equal(t, 2, report.Succeeded)
	})

	t.Run("audience narrows the target set", func(t *testing.T) {
		sender := newScriptedSender()
		dispatcher, _ := newTestDispatcher(sender)
		service := NewBroadcastService(users, dispatcher, nil, nil)

		report, err := service.Broadcast(ctx, "t", "c", "tips")
		require.NoError(t, err)

		assert.Equal(t, 1, report.Succeeded)
		assert.Equal(t, 1, sender.calls["u1"])
		assert.Zero(t, sender.calls["u2"])
	})

	t.Run("partial failure is reported and audited", func(t *testing.T) {
		sender := newScriptedSender()
		sender.permanentErr["u2"] = &zalo.GatewayError{Code: zalo.CodeUserBlocked, Message: "blocked"}
		dispatcher, _ := newTestDispatcher(sender)
		audit := &recordingNotifications{}
		service := NewBroadcastService(users, dispatcher, audit, nil)

		report, err := service.Broadcast(ctx, "t", "c", "")
		require.NoError(t, err)

		assert.Equal(t, 1, report.Succeeded)
		assert.Equal(t, 1, report.Failed)

		require.Len(t, audit.saved, 2)
		assert.False(t, audit.saved[1].Delivered)
		assert.Contains(t, audit.saved[1].ErrorReason, "blocked")
	})
}

func TestSendDirect(t *testing.T) {
	sender := newScriptedSender()
	sender.failuresBefore["u9"] = 1
	dispatcher, _ := newTestDispatcher(sender)
	audit := &recordingNotifications{}
	service := NewBroadcastService(&fakeUsers{}, dispatcher, audit, nil)

	outcome := service.SendDirect(context.Background(), "u9", "xin chào")

	assert.True(t, outcome.Succeeded())
	assert.Equal(t, 2, outcome.Attempts)
	require.Len(t, audit.saved, 1)
	assert.Equal(t, "u9", audit.saved[0].RecipientID)
	assert.Equal(t, "xin chào", audit.saved[0].Content)
}
