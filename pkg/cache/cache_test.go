package cache_test

import (
	"testing"

	"github.com/soundprediction/go-kag/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerCacheSetGet(t *testing.T) {
	c, err := cache.NewBadgerCache(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set("k", []byte("v"), 0))

	got, err := c.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestBadgerCacheMissingKey(t *testing.T) {
	c, err := cache.NewBadgerCache(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Get("absent")
	assert.ErrorIs(t, err, cache.ErrKeyNotFound)
}

func TestBadgerCacheDelete(t *testing.T) {
	c, err := cache.NewBadgerCache(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set("k", []byte("v"), 0))
	require.NoError(t, c.Delete("k"))

	_, err = c.Get("k")
	assert.ErrorIs(t, err, cache.ErrKeyNotFound)
}
