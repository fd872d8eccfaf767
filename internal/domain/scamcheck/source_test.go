package scamcheck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradesphere/antiscam/internal/domain/shared"
)

type stubSource struct {
	id string
}

func (s stubSource) ID() string { return s.id }

func (s stubSource) Search(ctx context.Context, keyword string) SourceResult {
	return SourceResult{Source: s.id, Success: true, Total: "1"}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(stubSource{SourceAdminVN}, stubSource{SourceCheckScamVN}, stubSource{SourceScamVN})

	t.Run("keeps registration order", func(t *testing.T) {
		all := reg.All()
		require.Len(t, all, 3)
		assert.Equal(t, SourceAdminVN, all[0].ID())
		assert.Equal(t, SourceCheckScamVN, all[1].ID())
		assert.Equal(t, SourceScamVN, all[2].ID())
	})

	t.Run("resolves by id", func(t *testing.T) {
		s, err := reg.Get(SourceCheckScamVN)
		require.NoError(t, err)
		assert.Equal(t, SourceCheckScamVN, s.ID())
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := reg.Get("nope")
		assert.ErrorIs(t, err, shared.ErrUnknownSource)
	})

	assert.Equal(t, 3, reg.Len())
}
