package quotecache

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

func TestFetch_HitWithinTTL(t *testing.T) {
	c := New(time.Minute, 0)
	var calls int32
	fn := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "265.50", nil
	}

	v1, err := c.Fetch(context.Background(), "GetLastPrices:{}", fn)
	require.NoError(t, err)
	v2, err := c.Fetch(context.Background(), "GetLastPrices:{}", fn)
	require.NoError(t, err)

	assert.Equal(t, "265.50", v1)
	assert.Equal(t, v1, v2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_MissAfterExpiry(t *testing.T) {
	c := New(30*time.Millisecond, 0)
	var calls int32
	fn := func(ctx context.Context) (interface{}, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	_, err := c.Fetch(context.Background(), "k", fn)
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	v, err := c.Fetch(context.Background(), "k", fn)
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetch_DifferentKeys(t *testing.T) {
	c := New(time.Minute, 0)
	var calls int32
	fn := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return struct{}{}, nil
	}

	_, _ = c.Fetch(context.Background(), `GetCandles:{"figi":"A"}`, fn)
	_, _ = c.Fetch(context.Background(), `GetCandles:{"figi":"B"}`, fn)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetch_ErrorIsNotCached(t *testing.T) {
	c := New(time.Minute, 0)
	upstreamErr := errors.New("connection refused")
	var calls int32
	fn := func(ctx context.Context) (interface{}, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, upstreamErr
		}
		return "ok", nil
	}

	_, err := c.Fetch(context.Background(), "k", fn)
	assert.ErrorIs(t, err, upstreamErr)
	_, ok := c.Get("k")
	assert.False(t, ok)

	v, err := c.Fetch(context.Background(), "k", fn)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestFetch_ConcurrentMissesCollapse(t *testing.T) {
	c := New(time.Minute, 0)
	var calls int32
	release := make(chan struct{})
	fn := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "v", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Fetch(context.Background(), "same", fn)
			assert.NoError(t, err)
			assert.Equal(t, "v", v)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPut_Overwrites(t *testing.T) {
	c := New(time.Minute, 0)
	c.Put("k", 1)
	c.Put("k", 2)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestJanitorPurgesExpired(t *testing.T) {
	c := New(10*time.Millisecond, 10*time.Millisecond)
	c.Put("a", 1)
	c.Put("b", 2)

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 10*time.Millisecond)
}
