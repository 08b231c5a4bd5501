package cache_test

import (
	"context"
	"testing"

	"league-core/internal/cache"
	"league-core/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 真實 Redis 上驗證 Lua 腳本：重建期間有投影寫入時不標記 warm
func TestSeatAvailabilityCache_RebuildRace(t *testing.T) {
	rdb := testutil.SetupRedis(t)
	c := cache.NewSeatAvailabilityCache(rdb)
	ctx := context.Background()

	version, err := c.Version(ctx, 5)
	require.NoError(t, err)

	// 讀完資料庫快照後才寫入的售出
	require.NoError(t, c.MarkSold(ctx, 5, 12))

	applied, err := c.Rebuild(ctx, 5, []int{3}, version)
	require.NoError(t, err)
	assert.False(t, applied)

	_, warm, err := c.SoldSeats(ctx, 5)
	require.NoError(t, err)
	assert.False(t, warm)

	version, err = c.Version(ctx, 5)
	require.NoError(t, err)
	applied, err = c.Rebuild(ctx, 5, []int{3, 12}, version)
	require.NoError(t, err)
	assert.True(t, applied)

	seats, warm, err := c.SoldSeats(ctx, 5)
	require.NoError(t, err)
	assert.True(t, warm)
	assert.Equal(t, []int{3, 12}, seats)

	require.NoError(t, c.Invalidate(ctx, 5))
	_, warm, err = c.SoldSeats(ctx, 5)
	require.NoError(t, err)
	assert.False(t, warm)
}
