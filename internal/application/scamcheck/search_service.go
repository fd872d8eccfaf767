package scamcheck

import (
	"context"
	"time"

	"github.com/tradesphere/antiscam/internal/domain/scamcheck"
	"github.com/tradesphere/antiscam/internal/domain/shared"
	"github.com/tradesphere/antiscam/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SearchService is the lookup use case shared by the HTTP API and the
// chat pipeline. Results are cached per scope and keyword; failed
// aggregations are cached too, shielding the upstream sites from retry
// storms on keywords that currently break.
type SearchService struct {
	aggregator *Aggregator
	cache      scamcheck.ResultCache
	searchLogs scamcheck.SearchLogRepository
	metrics    *telemetry.ServiceMetrics
	logger     *zap.Logger
}

// NewSearchService creates the search service. The search log repository
// is optional; without it lookups are simply not recorded.
func NewSearchService(
	aggregator *Aggregator,
	cache scamcheck.ResultCache,
	searchLogs scamcheck.SearchLogRepository,
	metrics *telemetry.ServiceMetrics,
	logger *zap.Logger,
) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{
		aggregator: aggregator,
		cache:      cache,
		searchLogs: searchLogs,
		metrics:    metrics,
		logger:     logger,
	}
}

// Search looks a keyword up in the given scope. Scope is either "all" or
// one source ID. RequesterID identifies the platform user behind the
// lookup and may be empty. The returned flag reports whether the result
// came from cache.
func (s *SearchService) Search(ctx context.Context, keyword, scope, channel, requesterID string) (*scamcheck.AggregateResult, bool, error) {
	normalized := scamcheck.NormalizeKeyword(keyword)
	if normalized == "" {
		return nil, false, shared.ErrInvalidInput
	}
	if scope == "" {
		scope = scamcheck.ScopeAll
	}
	if err := s.validateScope(scope); err != nil {
		return nil, false, err
	}

	start := time.Now()

	if cached, ok := s.cache.Get(ctx, scope, normalized); ok {
		if _, err := s.cache.IncrementHit(ctx, scope, normalized); err != nil {
			s.logger.Debug("hit counter update failed", zap.Error(err))
		}
		s.metrics.RecordCacheHit(ctx, true)
		s.recordSearch(ctx, normalized, scope, channel, requesterID, cached, true, time.Since(start))
		return cached, true, nil
	}
	s.metrics.RecordCacheHit(ctx, false)

	var result scamcheck.AggregateResult
	if scope == scamcheck.ScopeAll {
		result = s.aggregator.SearchAll(ctx, normalized)
	} else {
		var err error
		result, err = s.aggregator.SearchOne(ctx, scope, normalized)
		if err != nil {
			return nil, false, err
		}
	}

	if err := s.cache.Put(ctx, scope, normalized, result); err != nil {
		s.logger.Warn("result cache write failed",
			zap.String("keyword", normalized),
			zap.Error(err))
	}

	s.recordSearch(ctx, normalized, scope, channel, requesterID, &result, false, time.Since(start))
	return &result, false, nil
}

func (s *SearchService) validateScope(scope string) error {
	if scope == scamcheck.ScopeAll {
		return nil
	}
	_, err := s.aggregator.registry.Get(scope)
	return err
}

func (s *SearchService) recordSearch(ctx context.Context, keyword, scope, channel, requesterID string, result *scamcheck.AggregateResult, cacheHit bool, elapsed time.Duration) {
	s.metrics.RecordSearch(ctx, scope, channel, elapsed)

	if s.searchLogs == nil {
		return
	}
	entry := scamcheck.NewSearchLog(keyword, scope, channel, requesterID, result.TotalCount, cacheHit, elapsed)
	if err := s.searchLogs.Save(ctx, entry); err != nil {
		s.logger.Warn("search log write failed", zap.Error(err))
	}
}
