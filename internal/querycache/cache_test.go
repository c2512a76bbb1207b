package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCachesValue(t *testing.T) {
	c := New()
	ctx := context.Background()
	var calls int32
	load := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return []string{"users"}, nil
	}

	v, err := c.Fetch(ctx, ViewListBySchema("default", "public"), load)
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, v)

	_, err = c.Fetch(ctx, ViewListBySchema("default", "public"), load)
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	c := New()
	boom := errors.New("boom")
	_, err := c.Fetch(context.Background(), EntityTypeList("p"), func(context.Context) (any, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestFetchDedupesConcurrentLoads(t *testing.T) {
	c := New()
	release := make(chan struct{})
	started := make(chan struct{}, 5)
	var calls int32
	load := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		started <- struct{}{}
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Fetch(context.Background(), View("p", 7), load)
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}
	<-started
	close(release)
	wg.Wait()
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(5))
	_, ok := c.Peek(View("p", 7))
	assert.True(t, ok)
}

func TestInvalidatePrefix(t *testing.T) {
	c := New()
	ctx := context.Background()
	value := func(v any) func(context.Context) (any, error) {
		return func(context.Context) (any, error) { return v, nil }
	}
	_, _ = c.Fetch(ctx, ViewListBySchema("p", "public"), value(1))
	_, _ = c.Fetch(ctx, ViewListBySchema("p", "audit"), value(2))
	_, _ = c.Fetch(ctx, View("p", 9), value(3))
	_, _ = c.Fetch(ctx, EntityTypeList("p"), value(4))

	require.NoError(t, c.Invalidate(ctx, ViewListBySchema("p", "public")))
	_, ok := c.Peek(ViewListBySchema("p", "public"))
	assert.False(t, ok)
	_, ok = c.Peek(ViewListBySchema("p", "audit"))
	assert.True(t, ok)

	require.NoError(t, c.Invalidate(ctx, Key{"views", "p"}))
	assert.Equal(t, 1, c.Len())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, c.Invalidate(cancelled, EntityTypeList("p")), context.Canceled)
}

func TestInvalidateViewDropsItsColumns(t *testing.T) {
	c := New()
	ctx := context.Background()
	_, _ = c.Fetch(ctx, Columns("p", 9), func(context.Context) (any, error) { return []string{"id"}, nil })
	_, _ = c.Fetch(ctx, Columns("p", 10), func(context.Context) (any, error) { return []string{"id"}, nil })

	require.NoError(t, c.Invalidate(ctx, View("p", 9)))
	_, ok := c.Peek(Columns("p", 9))
	assert.False(t, ok)
	_, ok = c.Peek(Columns("p", 10))
	assert.True(t, ok)
}

func TestFetchAfterInvalidateDoesNotJoinStaleLoad(t *testing.T) {
	c := New()
	ctx := context.Background()
	key := ViewListBySchema("p", "public")

	started := make(chan struct{})
	release := make(chan struct{})
	staleDone := make(chan any)
	go func() {
		v, _ := c.Fetch(ctx, key, func(context.Context) (any, error) {
			close(started)
			<-release
			return []string{"users", "orders"}, nil
		})
		staleDone <- v
	}()
	<-started

	require.NoError(t, c.Invalidate(ctx, key))

	freshDone := make(chan any)
	go func() {
		v, _ := c.Fetch(ctx, key, func(context.Context) (any, error) {
			return []string{"users"}, nil
		})
		freshDone <- v
	}()

	fresh := <-freshDone
	close(release)
	stale := <-staleDone

	assert.Equal(t, []string{"users"}, fresh)
	assert.Equal(t, []string{"users", "orders"}, stale)
	cached, ok := c.Peek(key)
	require.True(t, ok)
	assert.Equal(t, []string{"users"}, cached)
}
