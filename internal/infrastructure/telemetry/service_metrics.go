package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when metrics are constructed without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// ServiceMetrics tracks lookup, cache and delivery activity.
type ServiceMetrics struct {
	logger *zap.Logger

	searchTotal    *Counter
	sourceTotal    *Counter
	cacheHitTotal  *Counter
	cacheMissTotal *Counter
	messageTotal   *Counter
	intentTotal    *Counter
	searchDuration *Histogram
}

// NewServiceMetrics creates the service metric instruments on the given meter.
func NewServiceMetrics(meter metric.Meter, logger *zap.Logger) (*ServiceMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sm := &ServiceMetrics{logger: logger}

	var err error
	if sm.searchTotal, err = NewCounter(meter,
		"antiscam_search_total", "Total scam lookups", "{lookups}"); err != nil {
		return nil, err
	}
	if sm.sourceTotal, err = NewCounter(meter,
		"antiscam_source_lookup_total", "Per-source lookup outcomes", "{lookups}"); err != nil {
		return nil, err
	}
	if sm.cacheHitTotal, err = NewCounter(meter,
		"antiscam_cache_hit_total", "Result cache hits", "{hits}"); err != nil {
		return nil, err
	}
	if sm.cacheMissTotal, err = NewCounter(meter,
		"antiscam_cache_miss_total", "Result cache misses", "{misses}"); err != nil {
		return nil, err
	}
	if sm.messageTotal, err = NewCounter(meter,
		"antiscam_message_sent_total", "Outbound message delivery outcomes", "{messages}"); err != nil {
		return nil, err
	}
	if sm.intentTotal, err = NewCounter(meter,
		"antiscam_message_intent_total", "Inbound chat messages by intent", "{messages}"); err != nil {
		return nil, err
	}
	if sm.searchDuration, err = NewHistogram(meter,
		"antiscam_search_duration_seconds", "Scam lookup latency", "s",
		SearchDurationBuckets...); err != nil {
		return nil, err
	}

	return sm, nil
}

// RecordSearch records one lookup with its scope, channel and latency.
func (sm *ServiceMetrics) RecordSearch(ctx context.Context, scope, channel string, d time.Duration) {
	if sm == nil {
		return
	}
	sm.searchTotal.Inc(ctx, AttrScope.String(scope), AttrChannel.String(channel))
	sm.searchDuration.RecordDuration(ctx, d, AttrScope.String(scope))
}

// RecordSourceLookup records one per-source outcome.
func (sm *ServiceMetrics) RecordSourceLookup(ctx context.Context, source string, success bool) {
	if sm == nil {
		return
	}
	sm.sourceTotal.Inc(ctx, AttrSource.String(source), AttrOutcome.String(outcomeLabel(success)))
}

// RecordCacheHit records a result cache hit or miss.
func (sm *ServiceMetrics) RecordCacheHit(ctx context.Context, hit bool) {
	if sm == nil {
		return
	}
	if hit {
		sm.cacheHitTotal.Inc(ctx)
	} else {
		sm.cacheMissTotal.Inc(ctx)
	}
}

// RecordIntent records one classified inbound chat message.
func (sm *ServiceMetrics) RecordIntent(ctx context.Context, intent string) {
	if sm == nil {
		return
	}
	sm.intentTotal.Inc(ctx, AttrIntent.String(intent))
}

// RecordDelivery records one outbound message delivery outcome.
func (sm *ServiceMetrics) RecordDelivery(ctx context.Context, success bool) {
	if sm == nil {
		return
	}
	sm.messageTotal.Inc(ctx, AttrOutcome.String(outcomeLabel(success)))
}

func outcomeLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
