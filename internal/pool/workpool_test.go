// Package pool provides unit tests for the bounded worker pool.
package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkPool_RunsAllTasks(t *testing.T) {
	wp := NewWorkPool(3)

	var count int64
	for i := 0; i < 20; i++ {
		wp.Add(func(ctx context.Context) error {
			atomic.AddInt64(&count, 1)
			return nil
		})
	}

	require.Equal(t, 20, wp.Len())
	err := wp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(20), atomic.LoadInt64(&count))
}

func TestWorkPool_ConcurrencyBound(t *testing.T) {
	const concurrency = 3

	wp := NewWorkPool(concurrency)

	var current, peak int64
	for i := 0; i < 30; i++ {
		wp.Add(func(ctx context.Context) error {
			n := atomic.AddInt64(&current, 1)
			for {
				observed := atomic.LoadInt64(&peak)
				if n <= observed || atomic.CompareAndSwapInt64(&peak, observed, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt64(&current, -1)
			return nil
		})
	}

	err := wp.Run(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(concurrency))
}

func TestWorkPool_FIFOStartOrder(t *testing.T) {
	// With concurrency 1 the start order is fully observable.
	wp := NewWorkPool(1)

	var mu sync.Mutex
	var order []int
	for i := 0; i < 10; i++ {
		idx := i
		wp.Add(func(ctx context.Context) error {
			mu.Lock()
			order = append(order, idx)
			mu.Unlock()
			return nil
		})
	}

	err := wp.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, order, 10)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestWorkPool_FailFast(t *testing.T) {
	wp := NewWorkPool(1)

	boom := errors.New("boom")
	var started int64

	wp.Add(func(ctx context.Context) error {
		atomic.AddInt64(&started, 1)
		return boom
	})
	for i := 0; i < 10; i++ {
		wp.Add(func(ctx context.Context) error {
			atomic.AddInt64(&started, 1)
			return nil
		})
	}

	err := wp.Run(context.Background())
	require.ErrorIs(t, err, boom)
	// Dispatch stops once the failure is observed; at most the task already
	// waiting on the semaphore slips through.
	assert.LessOrEqual(t, atomic.LoadInt64(&started), int64(2))
}

func TestWorkPool_FirstErrorWins(t *testing.T) {
	wp := NewWorkPool(1)

	first := errors.New("first")
	second := errors.New("second")
	wp.Add(func(ctx context.Context) error { return first })
	wp.Add(func(ctx context.Context) error { return second })

	err := wp.Run(context.Background())
	assert.ErrorIs(t, err, first)
	assert.NotErrorIs(t, err, second)
}

func TestWorkPool_ContextCancellation(t *testing.T) {
	wp := NewWorkPool(1)

	release := make(chan struct{})
	var started int64
	wp.Add(func(ctx context.Context) error {
		atomic.AddInt64(&started, 1)
		<-release
		return nil
	})
	for i := 0; i < 5; i++ {
		wp.Add(func(ctx context.Context) error {
			atomic.AddInt64(&started, 1)
			return nil
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- wp.Run(ctx)
	}()

	// Let the first task start, then cancel while the rest are queued.
	time.Sleep(10 * time.Millisecond)
	cancel()
	close(release)

	err := <-done
	require.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, atomic.LoadInt64(&started), int64(2))
}

func TestWorkPool_ZeroConcurrency(t *testing.T) {
	wp := NewWorkPool(0)

	ran := false
	wp.Add(func(ctx context.Context) error {
		ran = true
		return nil
	})

	err := wp.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestWorkPool_Empty(t *testing.T) {
	wp := NewWorkPool(4)
	assert.Equal(t, 0, wp.Len())
	assert.NoError(t, wp.Run(context.Background()))
}
