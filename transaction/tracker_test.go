package transaction

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonceTrackerUsesNetworkNonceFirst(t *testing.T) {
	tr := NewNonceTracker()
	ctx := context.Background()

	lease, err := tr.Acquire(ctx, "sultan1a")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), lease.Next(5))
	lease.Commit()

	// node has not applied nonce 5 yet
	lease, err = tr.Acquire(ctx, "sultan1a")
	require.NoError(t, err)
	assert.Equal(t, uint64(6), lease.Next(5))
	lease.Commit()

	// node moved past local state
	lease, err = tr.Acquire(ctx, "sultan1a")
	require.NoError(t, err)
	assert.Equal(t, uint64(10), lease.Next(10))
	lease.Release()
}

func TestNonceTrackerReleaseKeepsState(t *testing.T) {
	tr := NewNonceTracker()
	ctx := context.Background()

	lease, err := tr.Acquire(ctx, "sultan1a")
	require.NoError(t, err)
	lease.Next(3)
	lease.Release()
	lease.Commit() // no-op after release

	lease, err = tr.Acquire(ctx, "sultan1a")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), lease.Next(3))
	lease.Release()
}

func TestNonceTrackerSendersAreIndependent(t *testing.T) {
	tr := NewNonceTracker()
	ctx := context.Background()

	a, err := tr.Acquire(ctx, "sultan1a")
	require.NoError(t, err)
	defer a.Release()

	b, err := tr.Acquire(ctx, "sultan1b")
	require.NoError(t, err)
	b.Release()
}

func TestNonceTrackerAcquireHonorsContext(t *testing.T) {
	tr := NewNonceTracker()

	held, err := tr.Acquire(context.Background(), "sultan1a")
	require.NoError(t, err)
	defer held.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = tr.Acquire(ctx, "sultan1a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNonceTrackerConcurrentSendsGetDistinctNonces(t *testing.T) {
	tr := NewNonceTracker()
	const senders = 16

	var (
		mu   sync.Mutex
		used []uint64
		wg   sync.WaitGroup
	)
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lease, err := tr.Acquire(context.Background(), "sultan1a")
			if !assert.NoError(t, err) {
				return
			}
			// the node keeps reporting 0 because nothing was applied yet
			n := lease.Next(0)
			mu.Lock()
			used = append(used, n)
			mu.Unlock()
			lease.Commit()
		}()
	}
	wg.Wait()

	sort.Slice(used, func(i, j int) bool { return used[i] < used[j] })
	for i, n := range used {
		assert.Equal(t, uint64(i), n)
	}
}

func TestNonceTrackerForget(t *testing.T) {
	tr := NewNonceTracker()
	ctx := context.Background()

	lease, err := tr.Acquire(ctx, "sultan1a")
	require.NoError(t, err)
	lease.Next(9)
	lease.Commit()

	require.NoError(t, tr.Forget(ctx, "sultan1a"))

	lease, err = tr.Acquire(ctx, "sultan1a")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), lease.Next(2))
	lease.Release()
}
