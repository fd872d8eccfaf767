// Package scamcheck implements the search use cases: fanning a keyword
// out to every registered source, caching aggregate results and logging
// lookups.
package scamcheck

import (
	"context"
	"fmt"
	"sync"

	"github.com/tradesphere/antiscam/internal/domain/scamcheck"
	"github.com/tradesphere/antiscam/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Aggregator queries all registered sources in parallel and folds their
// answers into one aggregate result.
type Aggregator struct {
	registry *scamcheck.Registry
	metrics  *telemetry.ServiceMetrics
	logger   *zap.Logger
}

// NewAggregator creates an aggregator over a source registry.
func NewAggregator(registry *scamcheck.Registry, metrics *telemetry.ServiceMetrics, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		registry: registry,
		metrics:  metrics,
		logger:   logger,
	}
}

// SearchAll queries every source concurrently. One slow or failing source
// never hides the others: each failure becomes a failed entry in the
// aggregate, and results keep registration order.
func (a *Aggregator) SearchAll(ctx context.Context, keyword string) scamcheck.AggregateResult {
	sources := a.registry.All()
	results := make([]scamcheck.SourceResult, len(sources))

	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(i int, source scamcheck.Source) {
			defer wg.Done()
			results[i] = a.searchSource(ctx, source, keyword)
		}(i, source)
	}
	wg.Wait()

	return scamcheck.NewAggregateResult(keyword, results)
}

// SearchOne queries a single source by ID and wraps its answer as an
// aggregate so callers handle both scopes uniformly.
func (a *Aggregator) SearchOne(ctx context.Context, sourceID, keyword string) (scamcheck.AggregateResult, error) {
	source, err := a.registry.Get(sourceID)
	if err != nil {
		return scamcheck.AggregateResult{}, err
	}

	result := a.searchSource(ctx, source, keyword)
	return scamcheck.NewAggregateResult(keyword, []scamcheck.SourceResult{result}), nil
}

// searchSource runs one source lookup, converting panics into failed
// results so a misbehaving adapter cannot take down a whole search.
func (a *Aggregator) searchSource(ctx context.Context, source scamcheck.Source, keyword string) (result scamcheck.SourceResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("source lookup panicked",
				zap.String("source", source.ID()),
				zap.Any("panic", r))
			result = scamcheck.FailedResult(source.ID(), fmt.Sprintf("source panicked: %v", r))
		}
	}()

	result = source.Search(ctx, keyword)
	a.metrics.RecordSourceLookup(ctx, source.ID(), result.Success)

	if !result.Success {
		a.logger.Warn("source lookup failed",
			zap.String("source", source.ID()),
			zap.String("keyword", keyword),
			zap.String("reason", result.ErrorReason))
	}
	return result
}
