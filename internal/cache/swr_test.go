package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flakyStore struct {
	Store
	failReads bool
}

func (s *flakyStore) Get(ctx context.Context, key string) ([]byte, time.Duration, bool, error) {
	if s.failReads {
		return nil, 0, false, errors.New("store down")
	}
	return s.Store.Get(ctx, key)
}

func newTestSWR(store Store) *SWR {
	return NewSWR(store, nil, zap.NewNop(), nil, time.Minute)
}

type snapshot struct {
	Value int `json:"value"`
}

func TestFetchComputesOnceAndCaches(t *testing.T) {
	swr := newTestSWR(NewMemoryStore())
	ctx := context.Background()

	var calls atomic.Int64
	compute := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return snapshot{Value: 42}, nil
	}

	var first snapshot
	require.NoError(t, swr.Fetch(ctx, "nominee:1:detail", time.Hour, &first, compute))
	assert.Equal(t, 42, first.Value)
	assert.Equal(t, int64(1), calls.Load())

	// Second fetch is a hit: the compute function must not run again.
	var second snapshot
	require.NoError(t, swr.Fetch(ctx, "nominee:1:detail", time.Hour, &second, compute))
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), calls.Load())
}

func TestFetchHitMatchesDirectComputation(t *testing.T) {
	swr := newTestSWR(NewMemoryStore())
	ctx := context.Background()

	compute := func(ctx context.Context) (any, error) {
		return snapshot{Value: 7}, nil
	}

	var cached snapshot
	require.NoError(t, swr.Fetch(ctx, "leaderboard:nominee::10", time.Hour, &cached, compute))

	direct, err := compute(ctx)
	require.NoError(t, err)
	assert.Equal(t, direct.(snapshot), cached)
}

func TestFetchPropagatesComputeError(t *testing.T) {
	swr := newTestSWR(NewMemoryStore())

	wantErr := errors.New("db gone")
	var dest snapshot
	err := swr.Fetch(context.Background(), "nominee:2:detail", time.Hour, &dest, func(ctx context.Context) (any, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestFetchFailsOpenOnStoreError(t *testing.T) {
	store := &flakyStore{Store: NewMemoryStore(), failReads: true}
	swr := newTestSWR(store)

	var dest snapshot
	err := swr.Fetch(context.Background(), "nominee:3:detail", time.Hour, &dest, func(ctx context.Context) (any, error) {
		return snapshot{Value: 9}, nil
	})
	require.NoError(t, err, "a broken store must not take down the read path")
	assert.Equal(t, 9, dest.Value)
}

func TestInvalidateForcesRecompute(t *testing.T) {
	swr := newTestSWR(NewMemoryStore())
	ctx := context.Background()

	var calls atomic.Int64
	compute := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return snapshot{Value: int(calls.Load())}, nil
	}

	var dest snapshot
	require.NoError(t, swr.Fetch(ctx, "nominee:4:detail", time.Hour, &dest, compute))
	assert.Equal(t, 1, dest.Value)

	swr.Invalidate(ctx, "nominee:4:detail")

	require.NoError(t, swr.Fetch(ctx, "nominee:4:detail", time.Hour, &dest, compute))
	assert.Equal(t, 2, dest.Value, "invalidation must force a fresh computation")
}

func TestInvalidatePrefixDropsNamespace(t *testing.T) {
	store := NewMemoryStore()
	swr := newTestSWR(store)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "nominee:5:detail", []byte(`{}`), time.Hour))
	require.NoError(t, store.Set(ctx, "nominee:list:a", []byte(`{}`), time.Hour))
	require.NoError(t, store.Set(ctx, "institution:5:detail", []byte(`{}`), time.Hour))

	swr.InvalidatePrefix(ctx, "nominee:")

	_, _, ok, err := store.Get(ctx, "nominee:5:detail")
	require.NoError(t, err)
	assert.False(t, ok)
	_, _, ok, err = store.Get(ctx, "nominee:list:a")
	require.NoError(t, err)
	assert.False(t, ok)

	// Other namespaces stay warm.
	_, _, ok, err = store.Get(ctx, "institution:5:detail")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFetchRefreshesNearExpiry(t *testing.T) {
	store := NewMemoryStore()
	swr := newTestSWR(store)
	ctx := context.Background()

	var calls atomic.Int64
	compute := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return snapshot{Value: int(calls.Load())}, nil
	}

	// Seed with a TTL already under the revalidate threshold.
	require.NoError(t, store.Set(ctx, "trending:nominee:10", []byte(`{"value":1}`), 10*time.Second))

	var dest snapshot
	require.NoError(t, swr.Fetch(ctx, "trending:nominee:10", time.Hour, &dest, compute))
	// The stale value is served immediately.
	assert.Equal(t, 1, dest.Value)

	// The background refresh rewrites the entry with a fresh TTL.
	assert.Eventually(t, func() bool {
		_, remaining, ok, err := store.Get(ctx, "trending:nominee:10")
		return err == nil && ok && remaining > time.Minute
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())
}

func TestViewFromKey(t *testing.T) {
	assert.Equal(t, "detail", viewFromKey(DetailKey("nominee", "1")))
	assert.Equal(t, "list", viewFromKey(ListKey("nominee", "active")))
	assert.Equal(t, "leaderboard", viewFromKey(LeaderboardKey("nominee", "", 10)))
	assert.Equal(t, "trending", viewFromKey(TrendingKey("institution", 5)))
}
