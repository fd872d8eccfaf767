// Package notify implements outbound message delivery: retrying single
// sends, pacing broadcasts and running the scheduled tip and alert jobs.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/tradesphere/antiscam/internal/domain/notify"
	"github.com/tradesphere/antiscam/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Sender delivers one text message to a platform user.
type Sender interface {
	SendText(ctx context.Context, userID, text string) (string, error)
}

// retryableError is implemented by gateway errors that classify their own
// retry policy. Errors without the method are treated as retryable.
type retryableError interface {
	Retryable() bool
}

// DispatcherConfig contains delivery pacing and retry settings.
type DispatcherConfig struct {
	// MaxRetries after the first attempt (default: 2, so three attempts total)
	MaxRetries int
	// RetryBackoff between attempts to the same recipient (default: 1s)
	RetryBackoff time.Duration
	// BroadcastInterval between consecutive recipients (default: 1.5s)
	BroadcastInterval time.Duration
}

func (c *DispatcherConfig) applyDefaults() {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = time.Second
	}
	if c.BroadcastInterval <= 0 {
		c.BroadcastInterval = 1500 * time.Millisecond
	}
}

// Dispatcher sends messages through the gateway with bounded retries and
// paces broadcasts so the gateway's rate limit is never tripped.
type Dispatcher struct {
	sender  Sender
	config  DispatcherConfig
	sleep   func(ctx context.Context, d time.Duration)
	metrics *telemetry.ServiceMetrics
	logger  *zap.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(sender Sender, config DispatcherConfig, metrics *telemetry.ServiceMetrics, logger *zap.Logger) *Dispatcher {
	config.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		sender:  sender,
		config:  config,
		sleep:   sleepCtx,
		metrics: metrics,
		logger:  logger,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// SendOne delivers to a single recipient, retrying retryable failures up
// to the configured budget. Permanent failures (recipient unfollowed,
// blocked, deleted) stop immediately.
func (d *Dispatcher) SendOne(ctx context.Context, target notify.DeliveryTarget) notify.DeliveryOutcome {
	outcome := notify.DeliveryOutcome{RecipientID: target.RecipientID}

	maxAttempts := 1 + d.config.MaxRetries
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		outcome.Attempts = attempt

		_, err := d.sender.SendText(ctx, target.RecipientID, target.Content)
		if err == nil {
			outcome.Status = notify.DeliverySucceeded
			outcome.ErrorReason = ""
			d.metrics.RecordDelivery(ctx, true)
			return outcome
		}

		outcome.Status = notify.DeliveryFailed
		outcome.ErrorReason = err.Error()

		var re retryableError
		if errors.As(err, &re) && !re.Retryable() {
			d.logger.Info("delivery failed permanently",
				zap.String("recipient", target.RecipientID),
				zap.Error(err))
			break
		}
		if ctx.Err() != nil {
			break
		}

		if attempt < maxAttempts {
			d.logger.Debug("delivery attempt failed, retrying",
				zap.String("recipient", target.RecipientID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			d.sleep(ctx, d.config.RetryBackoff)
		}
	}

	d.metrics.RecordDelivery(ctx, false)
	return outcome
}

// SendBroadcast delivers to every target in order, pausing the configured
// interval between recipients but not after the last one. A failing
// recipient never aborts the rest; once the context is cancelled the
// remaining targets are marked failed without being attempted.
func (d *Dispatcher) SendBroadcast(ctx context.Context, job notify.BroadcastJob) notify.BroadcastReport {
	var report notify.BroadcastReport

	for i, target := range job.Targets {
		if ctx.Err() != nil {
			report.Add(notify.DeliveryOutcome{
				RecipientID: target.RecipientID,
				Status:      notify.DeliveryFailed,
				ErrorReason: ctx.Err().Error(),
			})
			continue
		}

		report.Add(d.SendOne(ctx, target))

		if i < len(job.Targets)-1 {
			d.sleep(ctx, d.config.BroadcastInterval)
		}
	}

	d.logger.Info("broadcast finished",
		zap.String("title", job.Title),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed))
	return report
}
