package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewWithClient(rdb), s
}

func TestGetOrLoad(t *testing.T) {
	c, s := newTestCache(t)
	ctx := context.Background()
	var calls atomic.Int32
	load := func(context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte("value"), nil
	}

	t.Run("loads once then serves from redis", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			b, err := c.GetOrLoad(ctx, "k", time.Minute, load)
			require.NoError(t, err)
			assert.Equal(t, "value", string(b))
		}
		assert.Equal(t, int32(1), calls.Load())
		assert.True(t, s.Exists("k"))
		assert.Equal(t, time.Minute, s.TTL("k"))
	})

	t.Run("load errors are not cached", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := c.GetOrLoad(ctx, "bad", time.Minute, func(context.Context) ([]byte, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
		assert.False(t, s.Exists("bad"))
	})

	t.Run("concurrent misses share one load", func(t *testing.T) {
		var n atomic.Int32
		release := make(chan struct{})
		slow := func(context.Context) ([]byte, error) {
			n.Add(1)
			<-release
			return []byte("x"), nil
		}
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = c.GetOrLoad(ctx, "shared", time.Minute, slow)
			}()
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()
		assert.Equal(t, int32(1), n.Load())
	})
}

func TestVersionedKeys(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	assert.Equal(t, int64(0), c.Version(ctx, "catalog"))
	k0 := c.Key(ctx, "catalog", "categories:x")
	assert.Equal(t, "salon:catalog:v0:categories:x", k0)

	require.NoError(t, c.Bump(ctx, "catalog"))
	assert.Equal(t, "salon:catalog:v1:categories:x", c.Key(ctx, "catalog", "categories:x"))
	assert.Equal(t, "salon:other:v0:y", c.Key(ctx, "other", "y"))
}

type item struct {
	Name string `json:"name"`
}

func TestTyped(t *testing.T) {
	ctx := context.Background()

	t.Run("nil cache calls load", func(t *testing.T) {
		tc := NewTyped[item](nil, "catalog", time.Minute)
		assert.False(t, tc.Enabled())
		var calls int
		for i := 0; i < 2; i++ {
			v, hit, err := tc.Get(ctx, "k", func(context.Context) (item, error) {
				calls++
				return item{Name: "a"}, nil
			})
			require.NoError(t, err)
			assert.False(t, hit)
			assert.Equal(t, "a", v.Name)
		}
		assert.Equal(t, 2, calls)
		assert.NoError(t, tc.Invalidate(ctx))
	})

	t.Run("round trips through redis", func(t *testing.T) {
		c, s := newTestCache(t)
		tc := NewTyped[item](c, "catalog", time.Minute)

		v, hit, err := tc.Get(ctx, "j", func(context.Context) (item, error) { return item{Name: "b"}, nil })
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Equal(t, "b", v.Name)

		raw, err := s.Get("salon:catalog:v0:j")
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"b"}`, raw)

		v, hit, err = tc.Get(ctx, "j", func(context.Context) (item, error) {
			return item{}, errors.New("must not be called")
		})
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, "b", v.Name)
	})

	t.Run("invalidate starts a new generation", func(t *testing.T) {
		c, _ := newTestCache(t)
		tc := NewTyped[item](c, "catalog", time.Minute)
		name := "first"
		load := func(context.Context) (item, error) { return item{Name: name}, nil }

		_, _, err := tc.Get(ctx, "k", load)
		require.NoError(t, err)
		name = "second"
		v, _, err := tc.Get(ctx, "k", load)
		require.NoError(t, err)
		assert.Equal(t, "first", v.Name)

		require.NoError(t, tc.Invalidate(ctx))
		v, hit, err := tc.Get(ctx, "k", load)
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Equal(t, "second", v.Name)
	})
}
