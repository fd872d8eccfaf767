package crawler

import (
	"context"
	"time"

	"github.com/tradesphere/antiscam/internal/domain/scamcheck"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// PageDescriptor declares how one client-rendered site is queried and how
// its result markup maps to records.
type PageDescriptor struct {
	// ID is the source identifier exposed to callers.
	ID string
	// BuildURL returns the search URL for a keyword.
	BuildURL func(keyword string) string
	// WaitSelector is the marker the page must render before extraction.
	// Empty means navigate and rely on the settle delay alone.
	WaitSelector string
	// Settle adds the configured settle delay after the marker appears,
	// for sites that fill results in after the frame loads.
	Settle bool
	// Extract pulls the total and records out of the rendered document.
	Extract func(doc *html.Node, keyword string) (total string, records []scamcheck.SourceRecord)
}

// RenderedPageSource adapts one PageDescriptor to the Source interface,
// fetching pages through the shared browser pool.
type RenderedPageSource struct {
	desc    PageDescriptor
	browser *Browser
	settle  time.Duration
	logger  *zap.Logger
}

// NewRenderedPageSource creates a source for a descriptor.
func NewRenderedPageSource(desc PageDescriptor, browser *Browser, settle time.Duration, logger *zap.Logger) *RenderedPageSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RenderedPageSource{
		desc:    desc,
		browser: browser,
		settle:  settle,
		logger:  logger.Named(desc.ID),
	}
}

// ID returns the source identifier.
func (s *RenderedPageSource) ID() string {
	return s.desc.ID
}

// Search renders the search page and extracts records. Every failure is
// folded into the result; Search never panics past the adapter.
func (s *RenderedPageSource) Search(ctx context.Context, keyword string) scamcheck.SourceResult {
	url := s.desc.BuildURL(keyword)

	settle := time.Duration(0)
	if s.desc.Settle {
		settle = s.settle
	}

	rendered, err := s.browser.FetchRendered(ctx, url, s.desc.WaitSelector, settle)
	if err != nil {
		s.logger.Warn("fetch failed", zap.String("keyword", keyword), zap.Error(err))
		return scamcheck.FailedResult(s.desc.ID, err.Error())
	}

	doc, err := parseDocument(rendered)
	if err != nil {
		s.logger.Warn("parse failed", zap.String("keyword", keyword), zap.Error(err))
		return scamcheck.FailedResult(s.desc.ID, err.Error())
	}

	total, records := s.desc.Extract(doc, keyword)
	s.logger.Debug("extracted records",
		zap.String("keyword", keyword),
		zap.String("total", total),
		zap.Int("records", len(records)))

	return scamcheck.SourceResult{
		Source:  s.desc.ID,
		Success: true,
		Total:   total,
		Records: records,
	}
}

// Ensure RenderedPageSource implements Source
var _ scamcheck.Source = (*RenderedPageSource)(nil)
