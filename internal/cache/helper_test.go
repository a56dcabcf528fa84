package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Users int64 `json:"users"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = Close() })
	return mr
}

func TestAside_CachesUntilTTL(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *snapshot) func() error {
		return func() error {
			calls++
			dest.Users = int64(calls * 10)
			return nil
		}
	}

	var first snapshot
	require.NoError(t, Aside(ctx, AdminMetricsKey, &first, AdminMetricsTTL, fetch(&first)))
	assert.Equal(t, int64(10), first.Users)
	assert.True(t, mr.Exists(AdminMetricsKey))

	var second snapshot
	require.NoError(t, Aside(ctx, AdminMetricsKey, &second, AdminMetricsTTL, fetch(&second)))
	assert.Equal(t, int64(10), second.Users)
	assert.Equal(t, 1, calls)

	mr.FastForward(AdminMetricsTTL + time.Second)

	var third snapshot
	require.NoError(t, Aside(ctx, AdminMetricsKey, &third, AdminMetricsTTL, fetch(&third)))
	assert.Equal(t, int64(20), third.Users)
	assert.Equal(t, 2, calls)
}

func TestInvalidate(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, AdminMetricsKey, snapshot{Users: 1}, time.Minute))
	Invalidate(ctx, AdminMetricsKey)
	assert.False(t, mr.Exists(AdminMetricsKey))
}

func TestAside_WithoutClientAlwaysFetches(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	calls := 0
	var dest snapshot
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(ctx, AdminMetricsKey, &dest, time.Minute, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
}

func TestAside_RedisDownFallsThrough(t *testing.T) {
	mr := setupMiniredis(t)
	mr.Close()

	var dest snapshot
	err := Aside(context.Background(), AdminMetricsKey, &dest, time.Minute, func() error {
		dest.Users = 3
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), dest.Users)
}
