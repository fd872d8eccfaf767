package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradesphere/antiscam/internal/domain/notify"
	"github.com/tradesphere/antiscam/internal/infrastructure/zalo"
)

// scriptedSender fails a fixed number of times per recipient before
// succeeding, or always returns a fixed error.
type scriptedSender struct {
	failuresBefore map[string]int
	permanentErr   map[string]error
	calls          map[string]int
	order          []string
}

func newScriptedSender() *scriptedSender {
	return &scriptedSender{
		failuresBefore: map[string]int{},
		permanentErr:   map[string]error{},
		calls:          map[string]int{},
	}
}

func (s *scriptedSender) SendText(ctx context.Context, userID, text string) (string, error) {
	s.calls[userID]++
	s.order = append(s.order, userID)
	if err, ok := s.permanentErr[userID]; ok {
		return "", err
	}
	if s.calls[userID] <= s.failuresBefore[userID] {
		return "", &zalo.GatewayError{Code: zalo.CodeTemporary, Message: "upstream hiccup"}
	}
	return "msg-1", nil
}

// recordedSleep collects sleeps instead of waiting.
type recordedSleep struct {
	slept []time.Duration
}

func (r *recordedSleep) sleep(ctx context.Context, d time.Duration) {
	r.slept = append(r.slept, d)
}

func newTestDispatcher(sender Sender) (*Dispatcher, *recordedSleep) {
	d := NewDispatcher(sender, DispatcherConfig{}, nil, nil)
	sleeps := &recordedSleep{}
	d.sleep = sleeps.sleep
	return d, sleeps
}

func TestSendOne(t *testing.T) {
	ctx := context.Background()

	t.Run("first attempt success", func(t *testing.T) {
		sender := newScriptedSender()
		d, sleeps := newTestDispatcher(sender)

		outcome := d.SendOne(ctx, notify.DeliveryTarget{RecipientID: "u1", Content: "hi"})

		assert.True(t, outcome.Succeeded())
		assert.Equal(t, 1, outcome.Attempts)
		assert.Empty(t, sleeps.slept)
	})

	t.Run("two transient failures then success", func(t *testing.T) {
		sender := newScriptedSender()
		sender.failuresBefore["u1"] = 2
		d, sleeps := newTestDispatcher(sender)

		outcome := d.SendOne(ctx, notify.DeliveryTarget{RecipientID: "u1", Content: "hi"})

		assert.True(t, outcome.Succeeded())
		assert.Equal(t, 3, outcome.Attempts)
		assert.Equal(t, []time.Duration{time.Second, time.Second}, sleeps.slept)
	})

	t.Run("retry budget exhausted", func(t *testing.T) {
		sender := newScriptedSender()
		sender.failuresBefore["u1"] = 10
		d, _ := newTestDispatcher(sender)

		outcome := d.SendOne(ctx, notify.DeliveryTarget{RecipientID: "u1", Content: "hi"})

		assert.False(t, outcome.Succeeded())
		assert.Equal(t, 3, outcome.Attempts, "one initial attempt plus two retries")
		assert.Contains(t, outcome.ErrorReason, "hiccup")
	})

	t.Run("permanent failure stops immediately", func(t *testing.T) {
		sender := newScriptedSender()
		sender.permanentErr["u1"] = &zalo.GatewayError{Code: zalo.CodeUserBlocked, Message: "blocked"}
		d, sleeps := newTestDispatcher(sender)

		outcome := d.SendOne(ctx, notify.DeliveryTarget{RecipientID: "u1", Content: "hi"})

		assert.False(t, outcome.Succeeded())
		assert.Equal(t, 1, outcome.Attempts)
		assert.Empty(t, sleeps.slept)
	})

	t.Run("unclassified errors are retried", func(t *testing.T) {
		sender := newScriptedSender()
		sender.permanentErr["u1"] = errors.New("connection reset")
		d, _ := newTestDispatcher(sender)

		outcome := d.SendOne(ctx, notify.DeliveryTarget{RecipientID: "u1", Content: "hi"})

		assert.False(t, outcome.Succeeded())
		assert.Equal(t, 3, outcome.Attempts)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		sender := newScriptedSender()
		sender.failuresBefore["u1"] = 10
		d, _ := newTestDispatcher(sender)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		outcome := d.SendOne(cancelled, notify.DeliveryTarget{RecipientID: "u1", Content: "hi"})

		assert.False(t, outcome.Succeeded())
		assert.Equal(t, 1, outcome.Attempts)
	})
}

func TestSendBroadcast(t *testing.T) {
	ctx := context.Background()

	targets := []notify.DeliveryTarget{
		{RecipientID: "u1", Content: "hi"},
		{RecipientID: "u2", Content: "hi"},
		{RecipientID: "u3", Content: "hi"},
	}

	t.Run("paces between recipients but not after the last", func(t *testing.T) {
		sender := newScriptedSender()
		d, sleeps := newTestDispatcher(sender)

		report := d.SendBroadcast(ctx, notify.BroadcastJob{Title: "t", Targets: targets})

		assert.Equal(t, 3, report.Succeeded)
		assert.Equal(t, 0, report.Failed)
		assert.Equal(t, []time.Duration{1500 * time.Millisecond, 1500 * time.Millisecond}, sleeps.slept)
	})

	t.Run("one permanently failing recipient does not abort the rest", func(t *testing.T) {
		sender := newScriptedSender()
		sender.permanentErr["u2"] = &zalo.GatewayError{Code: zalo.CodeNotFollowed, Message: "not followed"}
		d, _ := newTestDispatcher(sender)

		report := d.SendBroadcast(ctx, notify.BroadcastJob{Title: "t", Targets: targets})

		assert.Equal(t, 2, report.Succeeded)
		assert.Equal(t, 1, report.Failed)
		require.Len(t, report.Outcomes, 3)
		assert.Equal(t, "u2", report.Outcomes[1].RecipientID, "outcomes preserve target order")
		assert.False(t, report.Outcomes[1].Succeeded())
	})

	t.Run("real interval spans the broadcast", func(t *testing.T) {
		sender := newScriptedSender()
		d := NewDispatcher(sender, DispatcherConfig{BroadcastInterval: 30 * time.Millisecond}, nil, nil)

		start := time.Now()
		report := d.SendBroadcast(ctx, notify.BroadcastJob{Title: "t", Targets: targets})
		elapsed := time.Since(start)

		assert.Equal(t, 3, report.Succeeded)
		assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond, "at least (n-1) intervals")
	})

	t.Run("cancellation marks remaining targets failed", func(t *testing.T) {
		sender := newScriptedSender()
		d, _ := newTestDispatcher(sender)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		report := d.SendBroadcast(cancelled, notify.BroadcastJob{Title: "t", Targets: targets})

		assert.Equal(t, 3, report.Failed)
		assert.Empty(t, sender.order, "no sends after cancellation")
	})
}
