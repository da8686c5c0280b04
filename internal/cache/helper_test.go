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

type cachedThing struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func setupTestCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetSetJSON(t *testing.T) {
	setupTestCache(t)
	ctx := context.Background()

	var missing cachedThing
	found, err := GetJSON(ctx, "nope", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "thing", cachedThing{Name: "a", Count: 2}, time.Minute))

	var got cachedThing
	found, err = GetJSON(ctx, "thing", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedThing{Name: "a", Count: 2}, got)
}

func TestAside(t *testing.T) {
	mr := setupTestCache(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedThing) func() error {
		return func() error {
			fetches++
			*dest = cachedThing{Name: "fresh", Count: fetches}
			return nil
		}
	}

	var first cachedThing
	require.NoError(t, Aside(ctx, "key", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "fresh", first.Name)

	// Second read is served from the cache.
	var second cachedThing
	require.NoError(t, Aside(ctx, "key", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 1, second.Count)

	// After expiry the fetch runs again.
	mr.FastForward(2 * time.Minute)
	var third cachedThing
	require.NoError(t, Aside(ctx, "key", &third, time.Minute, fetch(&third)))
	assert.Equal(t, 2, fetches)
}

func TestAside_NilClientFallsThrough(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	fetches := 0
	var got cachedThing
	require.NoError(t, Aside(ctx, "key", &got, time.Minute, func() error {
		fetches++
		got = cachedThing{Name: "db"}
		return nil
	}))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "db", got.Name)
}

func TestInvalidate(t *testing.T) {
	mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, NodeKey("n1"), cachedThing{Name: "x"}, NodeTTL))
	require.NoError(t, SetJSON(ctx, FeedFirstPageKey, []cachedThing{{Name: "y"}}, FeedTTL))

	InvalidateNode(ctx, "n1")
	InvalidateFeed(ctx)

	assert.False(t, mr.Exists(NodeKey("n1")))
	assert.False(t, mr.Exists(FeedFirstPageKey))
}
