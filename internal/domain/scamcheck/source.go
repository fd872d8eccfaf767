package scamcheck

import (
	"context"

	"github.com/tradesphere/antiscam/internal/domain/shared"
)

// Known source identifiers. ScopeAll is the aggregate pseudo-scope used in
// cache keys and API requests.
const (
	ScopeAll          = "all"
	SourceAdminVN     = "admin"
	SourceCheckScamVN = "checkscam"
	SourceScamVN      = "scam"
	SourceChongLuaDao = "chongluadao"
)

// Source answers scam lookups against one upstream site or feed.
// Search never returns an error: any failure is folded into the result so
// the aggregator can treat every source uniformly.
type Source interface {
	// ID is the stable short identifier used in cache keys and responses.
	ID() string

	// Search queries the source for a keyword. Implementations must honor
	// ctx cancellation and bound their own work with a timeout.
	Search(ctx context.Context, keyword string) SourceResult
}

// Registry holds sources in registration order. Aggregate results list
// sources in this order, so registration order is part of the contract.
type Registry struct {
	sources []Source
	byID    map[string]Source
}

// NewRegistry builds a registry from sources in the given order.
func NewRegistry(sources ...Source) *Registry {
	r := &Registry{byID: make(map[string]Source, len(sources))}
	for _, s := range sources {
		r.sources = append(r.sources, s)
		r.byID[s.ID()] = s
	}
	return r
}

// All returns the registered sources in registration order.
func (r *Registry) All() []Source {
	return r.sources
}

// Get returns the source with the given ID.
func (r *Registry) Get(id string) (Source, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrUnknownSource
	}
	return s, nil
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	return len(r.sources)
}
