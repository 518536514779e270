package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupCounters(t *testing.T) *Counters {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCounters(rdb, time.Minute)
}

func TestLikeCountCachesLoader(t *testing.T) {
	c := setupCounters(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (int64, error) { calls++; return 7, nil }

	n, err := c.LikeCount(ctx, "p1", load)
	require.NoError(t, err)
	require.EqualValues(t, 7, n)

	n, err = c.LikeCount(ctx, "p1", load)
	require.NoError(t, err)
	require.EqualValues(t, 7, n)
	require.Equal(t, 1, calls) // 第二次命中缓存

	c.InvalidateLike(ctx, "p1")
	_, err = c.LikeCount(ctx, "p1", load)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestFollowCountsCachesLoader(t *testing.T) {
	c := setupCounters(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (int64, int64, error) { calls++; return 3, 5, nil }

	followers, following, err := c.FollowCounts(ctx, "u1", load)
	require.NoError(t, err)
	require.EqualValues(t, 3, followers)
	require.EqualValues(t, 5, following)

	_, _, err = c.FollowCounts(ctx, "u1", load)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	c.InvalidateFollows(ctx, "u1")
	_, _, err = c.FollowCounts(ctx, "u1", load)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestNilCountersBypass(t *testing.T) {
	var c *Counters
	ctx := context.Background()

	calls := 0
	n, err := c.LikeCount(ctx, "p1", func(context.Context) (int64, error) { calls++; return 1, nil })
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	_, err = c.LikeCount(ctx, "p1", func(context.Context) (int64, error) { calls++; return 1, nil })
	require.NoError(t, err)
	require.Equal(t, 2, calls)

	// 失效在旁路模式下是 no-op
	c.InvalidateLike(ctx, "p1")
	c.InvalidateFollows(ctx, "u1")
}
