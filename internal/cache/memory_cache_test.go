package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedSummary struct {
	TestsTaken int     `json:"tests_taken"`
	Accuracy   float64 `json:"accuracy"`
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "analytics:1", cachedSummary{TestsTaken: 3, Accuracy: 61.5}, time.Minute))

	var got cachedSummary
	require.NoError(t, c.Get(ctx, "analytics:1", &got))
	assert.Equal(t, cachedSummary{TestsTaken: 3, Accuracy: 61.5}, got)

	assert.ErrorIs(t, c.Get(ctx, "analytics:2", &got), ErrCacheMiss)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 1, 5*time.Minute))
	now = now.Add(6 * time.Minute)

	var v int
	assert.ErrorIs(t, c.Get(ctx, "k", &v), ErrCacheMiss)
	assert.Zero(t, c.Keys())
}

func TestMemoryCache_DeletePattern(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	for _, k := range []string{"analytics:1", "analytics:2", "plan:1"} {
		require.NoError(t, c.Set(ctx, k, k, 0))
	}

	require.NoError(t, c.DeletePattern(ctx, "analytics:*"))
	assert.Equal(t, 1, c.Keys())

	require.NoError(t, c.Delete(ctx, "plan:1"))
	assert.Zero(t, c.Keys())
}
