package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var got map[string]int
	hit, err := store.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, got["a"])
}

func TestMemoryExpiry(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", true, 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var got bool
	hit, err := store.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryDelete(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", 5, time.Minute))
	require.NoError(t, store.Delete(ctx, "k"))

	var got int
	hit, err := store.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryMissIsNotError(t *testing.T) {
	var got string
	hit, err := NewMemory().Get(context.Background(), "absent", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
