package cache

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/domain"
	"taskboard/pkg/utils"
)

// Integration-style test: runs only if REDIS_ADDR env is set.
func newRedisStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping redis test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}
	c := NewStore(Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), DB: db, Prefix: "taskboard-test:"})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Ping(ctx))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestStatsKey(t *testing.T) {
	assert.Equal(t, "stats:u1", StatsKey("u1"))
	assert.Equal(t, "taskboard:stats:u1", NewStore(Options{}).key(StatsKey("u1")))
}

func TestStatsCache_HitAndForget(t *testing.T) {
	c := newRedisStore(t)
	ctx := context.Background()
	sc := NewStatsCache(c, time.Minute)
	owner := utils.NewID()
	t.Cleanup(func() { _ = sc.Forget(ctx, owner) })

	loads := 0
	load := func(context.Context) (*domain.TaskStats, error) {
		loads++
		return &domain.TaskStats{Total: loads, Pending: loads}, nil
	}

	s, err := sc.Stats(ctx, owner, load)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Total)

	s, err = sc.Stats(ctx, owner, load)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 1, loads)

	require.NoError(t, sc.Forget(ctx, owner))
	s, err = sc.Stats(ctx, owner, load)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Total)
}

func TestStatsCache_LoadErrorNotCached(t *testing.T) {
	c := newRedisStore(t)
	ctx := context.Background()
	sc := NewStatsCache(c, time.Minute)
	owner := utils.NewID()
	t.Cleanup(func() { _ = sc.Forget(ctx, owner) })

	boom := errors.New("boom")
	_, err := sc.Stats(ctx, owner, func(context.Context) (*domain.TaskStats, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	s, err := sc.Stats(ctx, owner, func(context.Context) (*domain.TaskStats, error) {
		return &domain.TaskStats{Total: 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Total)
}

func TestFetch_UnreachableRedisFallsBackToLoad(t *testing.T) {
	s := NewStore(Options{Addr: "127.0.0.1:1"})
	defer s.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	loads := 0
	load := func(context.Context) (*domain.TaskStats, error) {
		loads++
		return &domain.TaskStats{Total: 5}, nil
	}
	sc := NewStatsCache(s, time.Minute)
	for i := 0; i < 2; i++ {
		st, err := sc.Stats(ctx, "u1", load)
		require.NoError(t, err)
		assert.Equal(t, 5, st.Total)
	}
	assert.Equal(t, 2, loads)
	assert.Error(t, sc.Forget(ctx, "u1"))
}
