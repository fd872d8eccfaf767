package scamcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceResultCount(t *testing.T) {
	tests := []struct {
		name  string
		total string
		want  int
	}{
		{"plain number", "12", 12},
		{"padded number", " 7 ", 7},
		{"zero", "0", 0},
		{"free text total", "nhiều cảnh báo", 0},
		{"empty total", "", 0},
		{"negative is clamped", "-3", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SourceResult{Total: tt.total}.Count())
		})
	}
}

func TestNewAggregateResult(t *testing.T) {
	t.Run("sums successful sources only", func(t *testing.T) {
		agg := NewAggregateResult("0949654358", []SourceResult{
			{Source: SourceAdminVN, Success: true, Total: "2"},
			{Source: SourceCheckScamVN, Success: false, Total: "9", ErrorReason: "timeout"},
			{Source: SourceScamVN, Success: true, Total: "abc"},
			{Source: SourceChongLuaDao, Success: true, Total: "1"},
		})

		assert.True(t, agg.Success)
		assert.Equal(t, 3, agg.TotalCount)
		assert.Len(t, agg.Sources, 4)
		assert.True(t, agg.HasWarnings())
	})

	t.Run("all sources failed", func(t *testing.T) {
		agg := NewAggregateResult("kw", []SourceResult{
			FailedResult(SourceAdminVN, "nav error"),
			FailedResult(SourceCheckScamVN, "timeout"),
		})

		assert.False(t, agg.Success)
		assert.Equal(t, 0, agg.TotalCount)
		assert.False(t, agg.HasWarnings())
	})

	t.Run("preserves source order", func(t *testing.T) {
		agg := NewAggregateResult("kw", []SourceResult{
			{Source: SourceScamVN, Success: true, Total: "1"},
			{Source: SourceAdminVN, Success: true, Total: "1"},
		})

		assert.Equal(t, SourceScamVN, agg.Sources[0].Source)
		assert.Equal(t, SourceAdminVN, agg.Sources[1].Source)
	})
}

func TestFailedResult(t *testing.T) {
	r := FailedResult(SourceAdminVN, "marker not found")
	assert.False(t, r.Success)
	assert.Equal(t, "marker not found", r.ErrorReason)
	assert.Equal(t, 0, r.Count())
	assert.Empty(t, r.Records)
}
