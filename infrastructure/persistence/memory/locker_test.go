package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_SerializesHolders(t *testing.T) {
	locker := NewLocker()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lock, err := locker.Acquire(ctx, "product#p1")
			if !assert.NoError(t, err) {
				return
			}

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			assert.NoError(t, lock.Release(ctx))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestLocker_IndependentResources(t *testing.T) {
	locker := NewLocker()
	ctx := context.Background()

	a, err := locker.Acquire(ctx, "product#a")
	require.NoError(t, err)
	b, err := locker.Acquire(ctx, "product#b")
	require.NoError(t, err)

	assert.NoError(t, a.Release(ctx))
	assert.NoError(t, b.Release(ctx))
}

func TestLocker_WaitHonorsContext(t *testing.T) {
	locker := NewLocker()
	held, err := locker.Acquire(context.Background(), "product#p1")
	require.NoError(t, err)
	defer held.Release(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = locker.Acquire(ctx, "product#p1")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocker_DoubleReleaseIsHarmless(t *testing.T) {
	locker := NewLocker()
	ctx := context.Background()

	first, err := locker.Acquire(ctx, "product#p1")
	require.NoError(t, err)
	require.NoError(t, first.Release(ctx))

	second, err := locker.Acquire(ctx, "product#p1")
	require.NoError(t, err)

	// A stale release must not free the new holder's lease
	require.NoError(t, first.Release(ctx))
	locker.mu.Lock()
	_, stillHeld := locker.held["product#p1"]
	locker.mu.Unlock()
	assert.True(t, stillHeld)
	assert.NoError(t, second.Release(ctx))
}
