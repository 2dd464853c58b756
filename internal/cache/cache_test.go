package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yacobolo/windgen/internal/engine"
)

func builder(calls *int32) func() (*engine.Context, error) {
	return func() (*engine.Context, error) {
		atomic.AddInt32(calls, 1)
		return &engine.Context{}, nil
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key(1, 2), Key(1, 2))
	assert.NotEqual(t, Key(1, 2), Key(2, 1))
	assert.NotEqual(t, Key(1, 2), Key(1, 3))
}

func TestAcquire_Reuse(t *testing.T) {
	c := New()
	var calls int32

	a, err := c.Acquire("a.css", 1, builder(&calls))
	require.NoError(t, err)
	assert.False(t, a.Hit)
	a.Release()

	b, err := c.Acquire("b.css", 1, builder(&calls))
	require.NoError(t, err)
	assert.True(t, b.Hit)
	assert.Same(t, a.Context, b.Context)
	b.Release()

	assert.EqualValues(t, 1, calls)
	s := c.Stats()
	assert.Equal(t, 1, s.Hits)
	assert.Equal(t, 1, s.Misses)
	assert.Equal(t, 1, s.Entries)
}

func TestAcquire_OwnerMoves(t *testing.T) {
	c := New()
	var calls int32

	l, err := c.Acquire("app.css", 1, builder(&calls))
	require.NoError(t, err)
	l.Release()

	l, err = c.Acquire("app.css", 2, builder(&calls))
	require.NoError(t, err)
	defer l.Release()

	s := c.Stats()
	assert.Equal(t, 1, s.Entries, "the unreferenced entry for key 1 is evicted")
	assert.Equal(t, 1, s.Evictions)
}

func TestAcquire_OwnerMovesWhileReferenced(t *testing.T) {
	c := New()
	var calls int32

	held, err := c.Acquire("other.css", 1, builder(&calls))
	require.NoError(t, err)
	l, err := c.Acquire("app.css", 1, builder(&calls))
	require.NoError(t, err)
	l.Release()

	l, err = c.Acquire("app.css", 2, builder(&calls))
	require.NoError(t, err)
	l.Release()
	assert.Equal(t, 2, c.Stats().Entries, "key 1 is still held by other.css")
	held.Release()
}

func TestInvalidate(t *testing.T) {
	c := New()
	var calls int32

	l, err := c.Acquire("app.css", 1, builder(&calls))
	require.NoError(t, err)
	c.Invalidate(1)
	assert.Equal(t, 1, c.Stats().Entries, "referenced entries survive until released")

	fresh, err := c.Acquire("app.css", 1, builder(&calls))
	require.NoError(t, err)
	assert.False(t, fresh.Hit)
	assert.NotSame(t, l.Context, fresh.Context)

	l.Release()
	l.Release()
	assert.Equal(t, 1, c.Stats().Entries)
	fresh.Release()
	assert.EqualValues(t, 2, calls)

	c.Invalidate(1)
	assert.Zero(t, c.Stats().Entries)
	c.Invalidate(42)
}

func TestForget(t *testing.T) {
	c := New()
	var calls int32
	l, err := c.Acquire("app.css", 7, builder(&calls))
	require.NoError(t, err)
	l.Release()

	c.Forget("app.css")
	c.Forget("missing.css")
	assert.Zero(t, c.Stats().Entries)
}

func TestAcquire_BuildError(t *testing.T) {
	c := New()
	_, err := c.Acquire("app.css", 1, func() (*engine.Context, error) {
		return nil, errors.New("bad config")
	})
	assert.EqualError(t, err, "bad config")
	assert.Zero(t, c.Stats().Entries)
}

func TestAcquire_Concurrent(t *testing.T) {
	c := New()
	var calls int32
	release := make(chan struct{})
	build := func() (*engine.Context, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &engine.Context{}, nil
	}

	const n = 8
	var wg sync.WaitGroup
	leases := make([]*Lease, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l, err := c.Acquire("app.css", 9, build)
			assert.NoError(t, err)
			leases[i] = l
		}(i)
	}
	close(release)
	wg.Wait()

	for _, l := range leases {
		require.NotNil(t, l)
		assert.Same(t, leases[0].Context, l.Context)
		l.Release()
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(n))
	assert.Equal(t, 1, c.Stats().Entries)
}

func TestLease_NilRelease(t *testing.T) {
	var l *Lease
	assert.NotPanics(t, l.Release)
}
