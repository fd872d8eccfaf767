package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradesphere/antiscam/internal/domain/chat"
	"github.com/tradesphere/antiscam/internal/domain/shared"
)

func TestGormUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save and find by platform id", func(t *testing.T) {
		repo := NewGormUserRepository(newTestDB(t))

		user := chat.NewUser("zalo-u1", "An Nguyen", "https://cdn.example/a.jpg")
		require.NoError(t, repo.Save(ctx, user))

		found, err := repo.FindByPlatformID(ctx, "zalo-u1")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "An Nguyen", found.DisplayName)
		assert.True(t, found.IsActive)
	})

	t.Run("missing user returns not found", func(t *testing.T) {
		repo := NewGormUserRepository(newTestDB(t))

		_, err := repo.FindByPlatformID(ctx, "nobody")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unfollow removes user from active set", func(t *testing.T) {
		repo := NewGormUserRepository(newTestDB(t))

		active := chat.NewUser("u-active", "A", "")
		gone := chat.NewUser("u-gone", "B", "")
		gone.Unfollow()
		require.NoError(t, repo.Save(ctx, active))
		require.NoError(t, repo.Save(ctx, gone))

		users, err := repo.FindActive(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "u-active", users[0].PlatformUserID)

		count, err := repo.CountActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("find active subscribed filters by subscription", func(t *testing.T) {
		repo := NewGormUserRepository(newTestDB(t))

		both := chat.NewUser("u-both", "A", "")
		tipsOff := chat.NewUser("u-tips-off", "B", "")
		tipsOff.SubscribedTips = false
		require.NoError(t, repo.Save(ctx, both))
		require.NoError(t, repo.Save(ctx, tipsOff))

		tips, err := repo.FindActiveSubscribed(ctx, "tips")
		require.NoError(t, err)
		require.Len(t, tips, 1)
		assert.Equal(t, "u-both", tips[0].PlatformUserID)

		alerts, err := repo.FindActiveSubscribed(ctx, "alert")
		require.NoError(t, err)
		assert.Len(t, alerts, 2)
	})

	t.Run("unknown subscription kind is rejected", func(t *testing.T) {
		repo := NewGormUserRepository(newTestDB(t))

		_, err := repo.FindActiveSubscribed(ctx, "newsletter")
		assert.Error(t, err)
	})

	t.Run("refollow keeps one row per platform user", func(t *testing.T) {
		repo := NewGormUserRepository(newTestDB(t))

		user := chat.NewUser("u1", "A", "")
		require.NoError(t, repo.Save(ctx, user))
		user.Unfollow()
		require.NoError(t, repo.Save(ctx, user))
		user.Refollow("A Updated", "")
		require.NoError(t, repo.Save(ctx, user))

		found, err := repo.FindByPlatformID(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, found.IsActive)
		assert.Equal(t, "A Updated", found.DisplayName)
		assert.Nil(t, found.UnfollowedAt)
	})
}
