package scamcheck

import (
	"strconv"
	"strings"
)

// SourceRecord is a single scam report extracted from one source.
// All fields are raw strings as displayed by the source; sources differ in
// which fields they populate.
type SourceRecord struct {
	Name        string `json:"name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	BankAccount string `json:"bank_account,omitempty"`
	BankName    string `json:"bank_name,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Views       string `json:"views,omitempty"`
	ReportDate  string `json:"report_date,omitempty"`
	DetailLink  string `json:"detail_link,omitempty"`
}

// SourceResult is the outcome of querying one source for a keyword.
// A failed lookup carries the reason instead of records; it is a value,
// never an error, so one dead source cannot sink an aggregation.
type SourceResult struct {
	Source      string         `json:"source"`
	Success     bool           `json:"success"`
	Total       string         `json:"total"`
	Records     []SourceRecord `json:"records,omitempty"`
	ErrorReason string         `json:"error_reason,omitempty"`
}

// Count parses the raw total reported by the source. Totals that are not
// clean integers (some sources echo free text) count as zero.
func (r SourceResult) Count() int {
	n, err := strconv.Atoi(strings.TrimSpace(r.Total))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FailedResult builds a failure outcome for a source.
func FailedResult(source, reason string) SourceResult {
	return SourceResult{Source: source, Success: false, Total: "0", ErrorReason: reason}
}

// AggregateResult is the combined outcome across all queried sources.
// Sources preserves registration order regardless of completion order.
type AggregateResult struct {
	Keyword    string         `json:"keyword"`
	Success    bool           `json:"success"`
	TotalCount int            `json:"total_count"`
	Sources    []SourceResult `json:"sources"`
}

// NewAggregateResult folds per-source outcomes into an aggregate. Success
// means at least one source answered; the total sums only successful sources.
func NewAggregateResult(keyword string, sources []SourceResult) AggregateResult {
	agg := AggregateResult{Keyword: keyword, Sources: sources}
	for _, s := range sources {
		if s.Success {
			agg.Success = true
			agg.TotalCount += s.Count()
		}
	}
	return agg
}

// HasWarnings reports whether any source returned actual reports.
func (a AggregateResult) HasWarnings() bool {
	return a.TotalCount > 0
}
