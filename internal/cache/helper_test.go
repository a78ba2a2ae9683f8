package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func setupMiniredis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
}

func TestAsideFetchesOnMissAndServesFromCache(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			fetches++
			dest.Name = "gala"
			dest.Count = 3
			return nil
		}
	}

	var first payload
	require.NoError(t, Aside(ctx, ApprovedKey("p1"), &first, ApprovedTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "gala", first.Name)

	var second payload
	require.NoError(t, Aside(ctx, ApprovedKey("p1"), &second, ApprovedTTL, fetch(&second)))
	assert.Equal(t, 1, fetches, "second read should hit the cache")
	assert.Equal(t, first, second)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	load := func(dest *payload) error {
		fetches++
		dest.Count = fetches
		return nil
	}

	var v payload
	require.NoError(t, Aside(ctx, ApprovedKey("p1"), &v, ApprovedTTL, func() error { return load(&v) }))

	Invalidate(ctx, ApprovedKey("p1"))

	var after payload
	require.NoError(t, Aside(ctx, ApprovedKey("p1"), &after, ApprovedTTL, func() error { return load(&after) }))
	assert.Equal(t, 2, fetches)
	assert.Equal(t, 2, after.Count)
}

func TestNilClientIsPassthrough(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	fetches := 0
	var v payload
	require.NoError(t, Aside(ctx, "k", &v, ApprovedTTL, func() error {
		fetches++
		return nil
	}))
	require.NoError(t, Aside(ctx, "k", &v, ApprovedTTL, func() error {
		fetches++
		return nil
	}))
	assert.Equal(t, 2, fetches, "without redis every read goes to the source")
}
