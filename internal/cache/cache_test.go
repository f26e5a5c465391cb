package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Hour))
	data, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, data)
	assert.NoError(t, c.Delete(ctx, "key"))
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	_, hit, err := c.Get(ctx, "snippet:a")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "snippet:a", []byte{1, 2, 3}, 0))
	data, hit, err := c.Get(ctx, "snippet:a")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte{1, 2, 3}, data)

	require.NoError(t, c.Delete(ctx, "snippet:a"))
	_, hit, _ = c.Get(ctx, "snippet:a")
	assert.False(t, hit)
	assert.NoError(t, c.Delete(ctx, "snippet:a"))

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(2), misses)
}

func TestFileCache_TruncatedEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "k", []byte{}, 0))
	data, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Empty(t, data)

	require.NoError(t, os.WriteFile(c.path("k"), []byte{1, 2}, 0644))
	_, hit, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
	_, err = os.Stat(c.path("k"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Nanosecond))
	time.Sleep(2 * time.Millisecond)
	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestKeyAndHash(t *testing.T) {
	assert.Equal(t, Hash([]byte("hello")), Hash([]byte("hello")))
	assert.NotEqual(t, Hash([]byte("hello")), Hash([]byte("world")))
	assert.Len(t, Hash([]byte("hello")), 64)

	k1 := Key("snippet", 1, "a")
	k2 := Key("snippet", 1, "b")
	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, Key("snippet", 1, "a"))
	assert.Regexp(t, `^snippet:[0-9a-f]{64}$`, k1)
}
