package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func withTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	prev := client
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(prev) })
	return mr
}

func TestGetSetJSON(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	var missing cachedPost
	assert.ErrorIs(t, GetJSON(ctx, PostKey(1), &missing), ErrCacheMiss)

	want := cachedPost{ID: 1, Title: "hello"}
	require.NoError(t, SetJSON(ctx, PostKey(1), want, PostTTL))

	var got cachedPost
	require.NoError(t, GetJSON(ctx, PostKey(1), &got))
	assert.Equal(t, want, got)
}

func TestAsideFetchesOnceThenServesFromCache(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	calls := 0
	var first cachedPost
	require.NoError(t, Aside(ctx, PostKey(7), &first, time.Minute, func() error {
		calls++
		first = cachedPost{ID: 7, Title: "fetched"}
		return nil
	}))
	assert.Equal(t, "fetched", first.Title)
	assert.Equal(t, 1, calls)

	var second cachedPost
	require.NoError(t, Aside(ctx, PostKey(7), &second, time.Minute, func() error {
		calls++
		return nil
	}))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second read should come from the cache")
}

func TestAsideWithoutRedisDegradesToFetch(t *testing.T) {
	prev := client
	SetClient(nil)
	t.Cleanup(func() { SetClient(prev) })

	var out cachedPost
	err := Aside(context.Background(), PostKey(9), &out, time.Minute, func() error {
		out = cachedPost{ID: 9, Title: "direct"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "direct", out.Title)
}

func TestInvalidatePostClearsRelatedKeys(t *testing.T) {
	mr := withTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostKey(3), cachedPost{ID: 3}, time.Minute))
	require.NoError(t, SetJSON(ctx, CommentsKey(3), []cachedPost{}, time.Minute))
	require.NoError(t, SetJSON(ctx, PostsListKey, []cachedPost{}, time.Minute))

	InvalidatePost(ctx, 3)

	assert.False(t, mr.Exists(PostKey(3)))
	assert.False(t, mr.Exists(CommentsKey(3)))
	assert.False(t, mr.Exists(PostsListKey))
}
