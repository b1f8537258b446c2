package cache_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sqlspec/sqlspec/internal/cache"
)

func TestGetOrCompute_CachesAfterFirstCompute(t *testing.T) {
	store, err := cache.NewStore[int]("test", 16)
	require.NoError(t, err)

	var calls int32
	compute := func() (int, error) {
		atomic.AddInt32(&calls, 1)
		return 42, nil
	}

	v, err := store.GetOrCompute(1, compute)
	require.NoError(t, err)
	require.Equal(t, 42, v)

	v, err = store.GetOrCompute(1, compute)
	require.NoError(t, err)
	require.Equal(t, 42, v)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSingleFlight_ConcurrentMisses(t *testing.T) {
	store, err := cache.NewStore[int]("test", 16)
	require.NoError(t, err)

	var calls int32
	start := make(chan struct{})
	const workers = 32

	results := make([]int, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = store.GetOrCompute(7, func() (int, error) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(10 * time.Millisecond)
				return 99, nil
			})
		}(i)
	}
	close(start)
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&calls), "exactly one computation should run for concurrent misses on the same key")
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, 99, results[i])
	}
}

func TestZeroCapacityDisablesCaching(t *testing.T) {
	store, err := cache.NewStore[int]("test", 0)
	require.NoError(t, err)

	var calls int32
	compute := func() (int, error) {
		atomic.AddInt32(&calls, 1)
		return 1, nil
	}

	_, err = store.GetOrCompute(1, compute)
	require.NoError(t, err)
	_, err = store.GetOrCompute(1, compute)
	require.NoError(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
	require.Equal(t, 0, store.Len())
}

func TestInvalidateRemovesEntry(t *testing.T) {
	store, err := cache.NewStore[int]("test", 16)
	require.NoError(t, err)

	_, err = store.GetOrCompute(5, func() (int, error) { return 5, nil })
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	store.Invalidate(5)
	require.Equal(t, 0, store.Len())
}

func TestPurgeClearsAllEntries(t *testing.T) {
	store, err := cache.NewStore[int]("test", 16)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := store.GetOrCompute(uint64(i), func() (int, error) { return i, nil })
		require.NoError(t, err)
	}
	require.Equal(t, 5, store.Len())

	store.Purge()
	require.Equal(t, 0, store.Len())
}

func TestComputeErrorNotCached(t *testing.T) {
	store, err := cache.NewStore[int]("test", 16)
	require.NoError(t, err)

	var calls int32
	_, err = store.GetOrCompute(1, func() (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, assertErr
	})
	require.Error(t, err)
	require.Equal(t, 0, store.Len())
}

var assertErr = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
